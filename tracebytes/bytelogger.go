// Package tracebytes defines the boundary between formatters, which
// produce complete serialized lines, and the sinks those lines are
// written to.
package tracebytes

import (
	"time"

	"github.com/jeromegn/tracing/tracenum"
)

// Line is one fully formatted event, including its trailing newline.
type Line interface {
	AsBytes() []byte
	GetLevel() tracenum.Level
	GetTime() time.Time

	// ReclaimMemory allows the underlying buffer to be reused. The
	// Line may not be touched afterwards.
	ReclaimMemory()
}

// BytesWriter is the output sink. Each Line call must land in the
// sink as one atomic unit relative to other writers; a Line that
// returns an error must leave nothing behind in the sink.
type BytesWriter interface {
	Line(Line) error
	Buffered() bool
	Flush() error
	Close()
}
