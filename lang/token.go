package lang

import (
	"log/slog"
	"strconv"
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in bytes
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
		slog.Int("offset", p.Offset),
	)
}

// tokenKind enumerates lexical token classes.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokText
	tokOpen  // {{
	tokClose // }}

	tokIdent
	tokInt
	tokString

	tokAssign   // :=
	tokSemi     // ;
	tokLParen   // (
	tokRParen   // )
	tokComma    // ,
	tokDot      // .
	tokPlus     // +
	tokMinus    // -
	tokStar     // *
	tokSlash    // /
	tokLess     // <
	tokGreater  // >
	tokEqual    // =
	tokNotEqual // !=

	tokIf
	tokDo
	tokEndif
	tokFor
	tokIn
	tokEndfor
	tokPrint
	tokAnd
	tokOr
	tokTrue
	tokFalse
)

var tokenName = [...]string{
	tokEOF:      "end of input",
	tokText:     "text",
	tokOpen:     "{{",
	tokClose:    "}}",
	tokIdent:    "identifier",
	tokInt:      "integer",
	tokString:   "string",
	tokAssign:   ":=",
	tokSemi:     ";",
	tokLParen:   "(",
	tokRParen:   ")",
	tokComma:    ",",
	tokDot:      ".",
	tokPlus:     "+",
	tokMinus:    "-",
	tokStar:     "*",
	tokSlash:    "/",
	tokLess:     "<",
	tokGreater:  ">",
	tokEqual:    "=",
	tokNotEqual: "!=",
	tokIf:       "if",
	tokDo:       "do",
	tokEndif:    "endif",
	tokFor:      "for",
	tokIn:       "in",
	tokEndfor:   "endfor",
	tokPrint:    "print",
	tokAnd:      "and",
	tokOr:       "or",
	tokTrue:     "true",
	tokFalse:    "false",
}

func (k tokenKind) String() string {
	if k >= 0 && int(k) < len(tokenName) {
		return tokenName[k]
	}

	return "token(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]tokenKind{
	"if":     tokIf,
	"do":     tokDo,
	"endif":  tokEndif,
	"for":    tokFor,
	"in":     tokIn,
	"endfor": tokEndfor,
	"print":  tokPrint,
	"and":    tokAnd,
	"or":     tokOr,
	"true":   tokTrue,
	"false":  tokFalse,
}

// IsKeyword reports whether name is a reserved word and therefore cannot be
// used as a variable name.
func IsKeyword(name string) bool {
	_, ok := keywords[name]

	return ok
}

// Keywords returns the reserved words of the template language in
// declaration order.
func Keywords() []string {
	return []string{
		"if", "do", "endif",
		"for", "in", "endfor",
		"print", "and", "or",
		"true", "false",
	}
}

// token is a single lexical unit.
type token struct {
	kind tokenKind
	text string // decoded text: identifier name, digits, string contents, raw text
	pos  Position
}

// describe renders the token for error messages.
func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokText:
		return "text " + strconv.Quote(t.text)
	case tokIdent:
		return "identifier " + strconv.Quote(t.text)
	case tokInt:
		return "integer " + t.text
	case tokString:
		return "string " + strconv.Quote(t.text)
	default:
		return strconv.Quote(t.kind.String())
	}
}
