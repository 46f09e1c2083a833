package lang

import (
	"log/slog"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// lexer splits source text into tokens. It alternates between text mode,
// where everything up to the next "{{" is a single text token, and block
// mode, where whitespace separates the tokens of a control block.
type lexer struct {
	input   string
	pos     int
	line    int
	col     int
	inBlock bool
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}

	return l.input[l.pos]
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

// advance consumes n bytes, tracking line and column.
func (l *lexer) advance(n int) {
	for range n {
		if l.eof() {
			return
		}

		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}

		l.pos++
	}
}

func (l *lexer) fail(pos Position, cause *Error, expected ...string) error {
	return newParseError(l.input, pos, cause, expected...)
}

// next returns the next token. After end of input it keeps returning tokEOF.
func (l *lexer) next() (token, error) {
	if l.inBlock {
		return l.nextBlock()
	}

	return l.nextText()
}

func (l *lexer) nextText() (token, error) {
	pos := l.position()

	if l.eof() {
		return token{kind: tokEOF, pos: pos}, nil
	}

	if strings.HasPrefix(l.input[l.pos:], openDelim) {
		l.advance(len(openDelim))
		l.inBlock = true

		return token{kind: tokOpen, pos: pos}, nil
	}

	end := strings.Index(l.input[l.pos:], openDelim)
	if end < 0 {
		end = len(l.input) - l.pos
	}

	text := l.input[l.pos : l.pos+end]
	l.advance(end)

	return token{kind: tokText, text: text, pos: pos}, nil
}

func (l *lexer) skipSpace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *lexer) nextBlock() (token, error) {
	l.skipSpace()

	pos := l.position()

	if l.eof() {
		return token{}, l.fail(pos, ErrUnterminatedBlock, closeDelim)
	}

	ch := l.peek()

	switch {
	case isIdentifierStart(ch):
		return l.scanIdentifier(pos), nil

	case isDigit(ch):
		return l.scanInteger(pos), nil

	case ch == '\'':
		return l.scanString(pos)
	}

	single := func(kind tokenKind) (token, error) {
		l.advance(1)

		return token{kind: kind, pos: pos}, nil
	}

	double := func(kind tokenKind) (token, error) {
		l.advance(2)

		return token{kind: kind, pos: pos}, nil
	}

	switch ch {
	case '}':
		if l.peekAt(1) == '}' {
			l.inBlock = false

			return double(tokClose)
		}

	case ':':
		if l.peekAt(1) == '=' {
			return double(tokAssign)
		}

		return token{}, l.fail(pos, ErrUnexpectedChar.With(
			slog.String("char", string(ch)),
		), ":=")

	case '!':
		if l.peekAt(1) == '=' {
			return double(tokNotEqual)
		}

		return token{}, l.fail(pos, ErrUnexpectedChar.With(
			slog.String("char", string(ch)),
		), "!=")

	case ';':
		return single(tokSemi)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case '.':
		return single(tokDot)
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '*':
		return single(tokStar)
	case '/':
		return single(tokSlash)
	case '<':
		return single(tokLess)
	case '>':
		return single(tokGreater)
	case '=':
		return single(tokEqual)
	}

	return token{}, l.fail(pos, ErrUnexpectedChar.With(
		slog.String("char", string(ch)),
	))
}

func (l *lexer) scanIdentifier(pos Position) token {
	start := l.pos
	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance(1)
	}

	name := l.input[start:l.pos]
	if kind, ok := keywords[name]; ok {
		return token{kind: kind, text: name, pos: pos}
	}

	return token{kind: tokIdent, text: name, pos: pos}
}

func (l *lexer) scanInteger(pos Position) token {
	start := l.pos
	for !l.eof() && isDigit(l.peek()) {
		l.advance(1)
	}

	return token{kind: tokInt, text: l.input[start:l.pos], pos: pos}
}

// scanString reads a single-quoted string literal. Escape sequences are
// decoded here, once. Unknown escapes are kept verbatim.
func (l *lexer) scanString(pos Position) (token, error) {
	l.advance(1) // opening quote

	var sb strings.Builder

	for {
		if l.eof() {
			return token{}, l.fail(pos, ErrUnterminatedString, "'")
		}

		ch := l.peek()

		switch ch {
		case '\'':
			l.advance(1)

			return token{kind: tokString, text: sb.String(), pos: pos}, nil

		case '\\':
			next := l.peekAt(1)
			if l.pos+1 >= len(l.input) {
				return token{}, l.fail(pos, ErrUnterminatedString, "'")
			}

			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}

			l.advance(2)

		default:
			sb.WriteByte(ch)
			l.advance(1)
		}
	}
}

func isIdentifierStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentifierContinue(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// IsIdentifier reports whether name is a valid variable name.
func IsIdentifier(name string) bool {
	if name == "" || !isIdentifierStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isIdentifierContinue(name[i]) {
			return false
		}
	}

	return !IsKeyword(name)
}
