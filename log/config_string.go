package log

import (
	"log/slog"
	"strconv"
	"strings"
)

// String returns the lowercase level name. Levels between the named ones
// are written as an offset from the nearest lower name, e.g. "info+2".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	if l < LevelDebug {
		n := int(l - LevelTrace)
		if n < 0 {
			return "trace" + strconv.Itoa(n)
		}

		return "trace+" + strconv.Itoa(n)
	}

	return strings.ToLower(slog.Level(l).String())
}

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}
