package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax             = NewError("syntax error")
	ErrUnexpectedChar     = NewError("unexpected character")
	ErrUnterminatedString = NewError("unterminated string literal")
	ErrUnterminatedBlock  = NewError("unterminated control block")
	ErrIntegerRange       = NewError("integer literal out of range")
	ErrInvalidOperand     = NewError("invalid operand")
	ErrInvalidListElement = NewError("list elements must be string literals")
	ErrMaxDepthExceeded   = NewError("maximum nesting depth exceeded")
	ErrReadInput          = NewError("failed to read input")

	ErrBadReference      = NewError("bad reference")
	ErrNotIterable       = NewError("not iterable")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrDivisionByZero    = NewError("division by zero")
	ErrIntegerOverflow   = NewError("integer overflow")
	ErrInvalidNode       = NewError("invalid syntax tree node")
	ErrWriteOutput       = NewError("failed to write output")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an unwrapped Error with the same message.
// Errors derived from a sentinel with [Error.With] or [Error.Wrap] therefore
// still match that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return slices.Clone(e.attrs) }

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports source text that violates the grammar.
// Parsing stops at the first error; there is no recovery.
type ParseError struct {
	Cause    *Error   // what went wrong, usually derived from ErrSyntax
	Source   string   // the original source input
	Pos      Position // location of the offending token
	Expected []string // tokens that would have been accepted, if known
}

func newParseError(
	source string,
	pos Position,
	cause *Error,
	expected ...string,
) *ParseError {
	return &ParseError{
		Cause:    cause,
		Source:   source,
		Pos:      pos,
		Expected: expected,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))

	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}

	buf.WriteString("\n")
	buf.WriteString(e.Snippet())

	if exp := e.expected(); len(exp) > 0 {
		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(exp, ", "))
	}

	return strings.TrimRight(buf.String(), "\n")
}

// Unwrap returns the cause so that errors.Is matches its sentinel.
func (e *ParseError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}

	return e.Cause
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", "parse error"),
		slog.Any("position", e.Pos),
	}

	if e.Cause != nil {
		attrs = append(attrs, slog.Any("cause", e.Cause))
	}

	if exp := e.expected(); len(exp) > 0 {
		attrs = append(attrs, slog.String("expected", strings.Join(exp, ", ")))
	}

	return slog.GroupValue(attrs...)
}

// Snippet renders the offending source line with a caret under the error
// column. It returns "" if the position is outside the source.
func (e *ParseError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line <= 0 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := lines[e.Pos.Line-1]

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	lineNumWidth := len(strconv.Itoa(e.Pos.Line))
	padding := strings.Repeat(" ", lineNumWidth+5)

	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

func (e *ParseError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// BadReferenceError reports a variable read before any assignment was
// visible in the active scope.
type BadReferenceError struct {
	Name string
	Pos  Position
}

// Error implements the error interface.
func (e *BadReferenceError) Error() string {
	return ErrBadReference.msg + ": variable " + strconv.Quote(e.Name) +
		" referenced before assignment at " + e.Pos.String()
}

// Unwrap allows errors.Is(err, ErrBadReference).
func (e *BadReferenceError) Unwrap() error { return ErrBadReference }

// LogValue implements slog.LogValuer.
func (e *BadReferenceError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrBadReference.msg),
		slog.String("name", e.Name),
		slog.Any("position", e.Pos),
	)
}

// NotIterableError reports a for-loop iterator variable bound to a value
// that is not a list.
type NotIterableError struct {
	Name string
	Kind Kind
	Pos  Position
}

// Error implements the error interface.
func (e *NotIterableError) Error() string {
	return ErrNotIterable.msg + ": variable " + strconv.Quote(e.Name) +
		" holds " + e.Kind.String() + ", not list, at " + e.Pos.String()
}

// Unwrap allows errors.Is(err, ErrNotIterable).
func (e *NotIterableError) Unwrap() error { return ErrNotIterable }

// LogValue implements slog.LogValuer.
func (e *NotIterableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrNotIterable.msg),
		slog.String("name", e.Name),
		slog.String("kind", e.Kind.String()),
		slog.Any("position", e.Pos),
	)
}
