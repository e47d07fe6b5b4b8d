package tracejson

import (
	"time"

	"github.com/jeromegn/tracing/tracebytes"
	"github.com/jeromegn/tracing/tracenum"
	"github.com/jeromegn/tracing/traceutil"

	"github.com/google/uuid"
	"github.com/muir/gwrap"
	"go.uber.org/atomic"
)

var _ tracebytes.Line = &line{}

const (
	maxBufferToKeep = 1024 * 10
	minBuffer       = 1024
)

type Option func(*Formatter)

// TimeFormatter is the function signature for timestamp rendering.
// The formatter itself never builds timestamp text; whatever this
// function appends (which must be valid JSON, normally a quoted
// string) is emitted as the "timestamp" value.  The value must
// be appended to the byte slice (which must be returned).
//
// For example:
//
//	func timeFormatter(b []byte, t time.Time) []byte {
//		b = append(b, '"')
//		b = append(b, []byte(t.Format(time.RFC3339))...)
//		b = append(b, '"')
//		return b
//	}
//
// The slice may not be safely accessed outside of the duration of the
// call.  The only acceptable operation on the slice is to append.
type TimeFormatter func(b []byte, t time.Time) []byte

// ErrorPolicy selects what happens when the formatter finds the span
// field data it wrote earlier unreadable.
type ErrorPolicy int

const (
	// Resilient keeps the stream alive: unreadable span data is
	// replaced in the output by a "field_error" diagnostic entry.
	Resilient ErrorPolicy = iota
	// Strict panics instead. Corrupt stored data means a bug in this
	// package, and during development it must not pass silently.
	Strict
)

// Format controls the shape of each formatted event. All 32
// combinations are legal; some are redundant (merging parent fields
// while also displaying the current span emits the same data twice
// under different keys) but that is accepted behavior, not a bug.
type Format struct {
	// FlattenEvent merges event fields into the root object instead
	// of nesting them under "fields".
	FlattenEvent bool
	// DisplayCurrentSpan adds a "span" object for the current span.
	DisplayCurrentSpan bool
	// DisplaySpanList adds a "spans" array covering the whole chain,
	// root first.
	DisplaySpanList bool
	// MergeParentFields appends every field of every span in the
	// chain, current span first, to the event's own fields.
	MergeParentFields bool
	// NamespaceParentFields prefixes each merged field's key with the
	// contributing span's name and a dot. Without it, same-named
	// fields from different spans appear as repeated JSON keys:
	// preserved, not deduplicated.
	NamespaceParentFields bool
}

func DefaultFormat() Format {
	return Format{
		FlattenEvent:          false,
		DisplayCurrentSpan:    true,
		DisplaySpanList:       true,
		MergeParentFields:     false,
		NamespaceParentFields: true,
	}
}

// Formatter turns events into single-line JSON objects on a
// tracebytes.BytesWriter. Formatters are safe for concurrent use.
type Formatter struct {
	writer            tracebytes.BytesWriter
	format            Format
	displayTarget     bool
	displayThreadName bool
	displayThreadID   bool
	fastKeys          bool
	policy            ErrorPolicy
	logBridge         bool
	timeFormatter     TimeFormatter
	id                uuid.UUID
	errorFunc         func(error)
	store             FieldStore
	linePool          gwrap.SyncPool[*line]
	eventCount        atomic.Int64
	droppedCount      atomic.Int64
}

type line struct {
	traceutil.JBuilder
	formatter *Formatter
	level     tracenum.Level
	timestamp time.Time
}

func New(w tracebytes.BytesWriter, opts ...Option) *Formatter {
	f := &Formatter{
		writer:        w,
		format:        DefaultFormat(),
		displayTarget: true,
		policy:        Resilient,
		id:            uuid.New(),
		timeFormatter: defaultTimeFormatter,
		errorFunc:     func(error) {},
	}
	f.linePool.New = func() *line {
		return &line{
			formatter: f,
			JBuilder: traceutil.JBuilder{
				B:        make([]byte, 0, minBuffer),
				FastKeys: f.fastKeys,
			},
		}
	}
	for _, opt := range opts {
		opt(f)
	}
	f.store = FieldStore{
		Policy:    f.policy,
		LogBridge: f.logBridge,
	}
	return f
}

func (f *Formatter) ID() string     { return f.id.String() }
func (f *Formatter) Buffered() bool { return f.writer.Buffered() }
func (f *Formatter) Flush() error   { return f.writer.Flush() }
func (f *Formatter) Close()         { f.writer.Close() }

// SetErrorReporter routes write failures and internal diagnostics
// somewhere useful. The default reporter discards them.
func (f *Formatter) SetErrorReporter(reporter func(error)) { f.errorFunc = reporter }

// EventCount is the number of events successfully written.
func (f *Formatter) EventCount() int64 { return f.eventCount.Load() }

// DroppedCount is the number of events dropped whole because the
// write failed. A dropped event never leaves a partial line behind.
func (f *Formatter) DroppedCount() int64 { return f.droppedCount.Load() }

// WithFormat replaces the whole output configuration.
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithFlattenEvent merges event fields into the root object when true.
func WithFlattenEvent(b bool) Option {
	return func(f *Formatter) {
		f.format.FlattenEvent = b
	}
}

// WithCurrentSpan controls the "span" object for the current span.
func WithCurrentSpan(b bool) Option {
	return func(f *Formatter) {
		f.format.DisplayCurrentSpan = b
	}
}

// WithSpanList controls the "spans" array. Spans are logged in a list
// from root to leaf.
func WithSpanList(b bool) Option {
	return func(f *Formatter) {
		f.format.DisplaySpanList = b
	}
}

// WithMergeParentFields appends every field of every span in the
// chain to the event's fields when true.
func WithMergeParentFields(b bool) Option {
	return func(f *Formatter) {
		f.format.MergeParentFields = b
	}
}

// WithNamespaceParentFields prefixes merged fields with the
// contributing span's name when true.
func WithNamespaceParentFields(b bool) Option {
	return func(f *Formatter) {
		f.format.NamespaceParentFields = b
	}
}

// WithTarget controls the "target" entry. On by default.
func WithTarget(b bool) Option {
	return func(f *Formatter) {
		f.displayTarget = b
	}
}

// WithThreadName controls the "threadName" entry. Goroutines have no
// names, so the entry carries the numeric goroutine ID and is only
// emitted when WithThreadID is off.
func WithThreadName(b bool) Option {
	return func(f *Formatter) {
		f.displayThreadName = b
	}
}

// WithThreadID controls the "threadId" entry.
func WithThreadID(b bool) Option {
	return func(f *Formatter) {
		f.displayThreadID = b
	}
}

// WithTimeFormatter specifies how the "timestamp" value is rendered.
// The default is time.RFC3339Nano.
func WithTimeFormatter(formatter TimeFormatter) Option {
	return func(f *Formatter) {
		f.timeFormatter = formatter
	}
}

// WithErrorPolicy selects Strict or Resilient handling of corrupt
// stored span fields. The default is Resilient.
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(f *Formatter) {
		f.policy = policy
	}
}

// WithLogBridge enables ingestion from a log-facade bridge: fields in
// the reserved "log." namespace are dropped during capture because
// the bridge duplicates them elsewhere in the output.
func WithLogBridge(b bool) Option {
	return func(f *Formatter) {
		f.logBridge = b
	}
}

// WithUncheckedKeys skips escape checking on field keys. Only safe
// when every key is known to need no escaping.
func WithUncheckedKeys(b bool) Option {
	return func(f *Formatter) {
		f.fastKeys = b
	}
}

func defaultTimeFormatter(b []byte, t time.Time) []byte {
	b = append(b, '"')
	b = append(b, []byte(t.Format(time.RFC3339Nano))...)
	b = append(b, '"')
	return b
}
