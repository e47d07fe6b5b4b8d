package tracenum

import (
	"strconv"

	"github.com/pkg/errors"
)

// String returns the canonical upper-case form used on the wire.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// LevelString is the inverse of Level.String for the canonical forms.
func LevelString(s string) (Level, error) {
	switch s {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	}
	return 0, errors.Errorf("%s does not name a Level", s)
}
