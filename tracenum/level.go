// Package tracenum provides level constants used across the tracing
// ecosystem.
package tracenum

type Level int32

const (
	// Levels are spaced out so that intermediate severities can be
	// added without renumbering.
	TraceLevel Level = 2  // trace
	DebugLevel Level = 5  // debug
	InfoLevel  Level = 9  // info
	WarnLevel  Level = 13 // warn
	ErrorLevel Level = 17 // error
)

const MaxLevel = ErrorLevel
