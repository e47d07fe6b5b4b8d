// Package traceregistry is an arena of live spans. Each span has a
// name, at most one parent, and an extension slot holding the
// serialized form of the fields recorded on it. The arena provides
// what formatters need: parent lookup, ancestry walks, and exclusive
// access to the extension slot.
package traceregistry

import (
	"sync"
	"sync/atomic"

	"github.com/muir/gwrap"
	"github.com/muir/list"
	"github.com/pkg/errors"
)

// MaxDepth bounds ancestry walks. The span graph is a tree by
// construction; hitting the bound means a parent link cycle and that
// is a bug, reported rather than looped on.
const MaxDepth = 1000

var ErrMaxDepth = errors.New("span parent chain exceeds maximum depth")

type ID uint64

type Registry struct {
	lastID uint64
	spans  gwrap.SyncMap[ID, *Span]
}

type Span struct {
	registry *Registry
	id       ID
	parent   ID // zero means no parent
	name     string

	mu     sync.Mutex
	fields []byte
}

func New() *Registry {
	return &Registry{}
}

// NewSpan allocates a span. A nil parent makes a root span.
func (r *Registry) NewSpan(name string, parent *Span) *Span {
	s := &Span{
		registry: r,
		id:       ID(atomic.AddUint64(&r.lastID, 1)),
		name:     name,
	}
	if parent != nil {
		s.parent = parent.id
	}
	r.spans.LoadOrStore(s.id, s)
	return s
}

func (r *Registry) Span(id ID) (*Span, bool) {
	return r.spans.Load(id)
}

func (s *Span) ID() ID       { return s.id }
func (s *Span) Name() string { return s.name }

func (s *Span) Parent() (*Span, bool) {
	if s.parent == 0 {
		return nil, false
	}
	return s.registry.Span(s.parent)
}

// Done releases the span from the arena. The extension slot goes with
// it; the caller must not use the span afterwards.
func (s *Span) Done() {
	s.registry.spans.Delete(s.id)
}

// Ancestors returns the chain from the span's immediate parent up to
// and including the root.
func (s *Span) Ancestors() ([]*Span, error) {
	var chain []*Span
	cur := s
	for {
		if len(chain) >= MaxDepth {
			return nil, errors.Wrapf(ErrMaxDepth, "walking ancestors of span %q", s.name)
		}
		p, ok := cur.Parent()
		if !ok {
			return chain, nil
		}
		chain = append(chain, p)
		cur = p
	}
}

// Scope returns the chain from the root down to and including the
// span itself: the display order for span lists.
func (s *Span) Scope() ([]*Span, error) {
	ancestors, err := s.Ancestors()
	if err != nil {
		return nil, err
	}
	chain := make([]*Span, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	return append(chain, s), nil
}

// UpdateFields gives fn exclusive access to the span's serialized
// field data for one read-modify-write. The returned slice replaces
// the stored data; no intermediate state is visible to readers. The
// lock is held only for the duration of fn.
func (s *Span) UpdateFields(fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := fn(s.fields)
	if err != nil {
		return err
	}
	s.fields = updated
	return nil
}

// Fields returns a snapshot of the span's serialized field data.
func (s *Span) Fields() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return list.Copy(s.fields)
}
