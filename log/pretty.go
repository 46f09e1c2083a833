package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds what both pretty handlers share: configuration, the
// output lock, and the attributes and group prefix accumulated through
// WithAttrs and WithGroup.
type prettyBase struct {
	cfg    config
	mu     *sync.Mutex
	prefix string
	attrs  []slog.Attr
}

func newPrettyBase(cfg config) prettyBase {
	return prettyBase{cfg: cfg, mu: &sync.Mutex{}}
}

func (b prettyBase) enabled(level slog.Level) bool {
	return level >= slog.Level(b.cfg.level)
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	if len(attrs) == 0 {
		return b
	}

	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)

	for _, a := range attrs {
		a.Key = b.prefix + a.Key
		merged = append(merged, a)
	}

	b.attrs = merged

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// header returns the fixed leading fields of a record, already formatted.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		if ts := b.cfg.formatTime(r.Time); ts != "" {
			head = append(head, slog.String(slog.TimeKey, ts))
		}
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if b.cfg.caller && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		if f, _ := frames.Next(); f.File != "" {
			head = append(head, slog.String(slog.SourceKey, f.File+":"+strconv.Itoa(f.Line)))
		}
	}

	return append(head, slog.String(slog.MessageKey, r.Message))
}

// fields flattens the handler and record attributes into dotted keys.
func (b prettyBase) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs())

	for _, a := range b.attrs {
		out = flatten(out, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		out = flatten(out, b.prefix, a)

		return true
	})

	return out
}

func flatten(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return out
	}

	if a.Value.Kind() != slog.KindGroup {
		a.Key = prefix + a.Key

		return append(out, a)
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		out = flatten(out, prefix, g)
	}

	return out
}

func (b prettyBase) write(w io.Writer, buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(cfg config) *prettyTextHandler {
	return &prettyTextHandler{prettyBase: newPrettyBase(cfg)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		writeTextAttr(buf, a)
	}

	for _, a := range h.fields(r) {
		writeTextAttr(buf, a)
	}

	return h.write(h.cfg.output, buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{prettyBase: h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{prettyBase: h.withGroup(name)}
}

func writeTextAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeValue(buf, a.Value)
}

// writeValue writes v unquoted, in a color chosen by its kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().String()

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			color, text = levelColor(level), strings.ToUpper(Level(level).String())
		} else if v.Any() == nil {
			color, text = colorGray, "null"
		} else {
			text = v.String()
		}

	default:
		text = v.String()
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// prettyJSONHandler writes each record as an indented, colorized object with
// one field per line.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(cfg config) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase: newPrettyBase(cfg)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true
	for _, group := range [][]slog.Attr{h.header(r), h.fields(r)} {
		for _, a := range group {
			if !first {
				buf.WriteByte(',')
			}

			first = false

			buf.WriteString("\n  ")
			buf.WriteString(colorGray)
			buf.WriteString(strconv.Quote(a.Key))
			buf.WriteString(colorReset)
			buf.WriteString(": ")

			writeValue(buf, a.Value)
		}
	}

	buf.WriteString("\n}")

	return h.write(h.cfg.output, buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.withGroup(name)}
}
