package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/dumbo/log"
)

// Parser turns template source text into a [Program].
// A Parser holds only configuration and may be reused, also concurrently.
type Parser struct {
	opts options
}

// NewParser returns a Parser configured with opts.
func NewParser(opts ...Option) *Parser {
	return &Parser{opts: makeOptions(opts...)}
}

// ParseReader reads all of r and parses it.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return p.ParseString(ctx, string(data))
}

// ParseString parses src. On failure the error is a [*ParseError] and no
// tree is returned.
func (p *Parser) ParseString(ctx context.Context, src string) (*Program, error) {
	st := &parser{
		ctx:      ctx,
		src:      src,
		lex:      newLexer(src),
		maxDepth: p.opts.maxDepth,
		logger:   p.opts.logger,
	}

	st.logger.TraceContext(ctx, "parse start", slog.Int("length", len(src)))

	prog, err := st.parseProgram()
	if err != nil {
		st.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	st.logger.TraceContext(ctx, "parse complete",
		slog.Int("content_count", len(prog.Content)))

	return prog, nil
}

// ParseString parses src with a new [Parser] configured by opts.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	return NewParser(opts...).ParseString(ctx, src)
}

// ParseReader parses all of r with a new [Parser] configured by opts.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	return NewParser(opts...).ParseReader(ctx, r)
}

// parser holds the state of a single parse. It keeps one token of
// lookahead in tok and never backtracks.
type parser struct {
	ctx      context.Context
	src      string
	lex      *lexer
	tok      token
	depth    int
	maxDepth int
	logger   log.Logger
}

// advance moves the lookahead to the next token.
func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

// expect consumes a token of the given kind and returns it.
func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.tok
	if tok.kind != kind {
		return tok, p.unexpected(kind.String())
	}

	return tok, p.advance()
}

func (p *parser) unexpected(expected ...string) error {
	return newParseError(p.src, p.tok.pos,
		ErrSyntax.
			Wrap(errors.New("unexpected "+p.tok.describe())).
			With(slog.String("found", p.tok.describe())),
		expected...)
}

func (p *parser) enter() error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return newParseError(p.src, p.tok.pos,
			ErrSyntax.Wrap(ErrMaxDepthExceeded.With(
				slog.Int("max_depth", p.maxDepth),
			)))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseProgram parses: (TEXT | "{{" expressions_list "}}")* EOF.
func (p *parser) parseProgram() (*Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	prog := new(Program)

	for {
		switch p.tok.kind {
		case tokEOF:
			return prog, nil

		case tokText:
			prog.Content = append(prog.Content, &Text{Value: p.tok.text, Pos: p.tok.pos})

			if err := p.advance(); err != nil {
				return nil, err
			}

		case tokOpen:
			list, err := p.parseBlock()
			if err != nil {
				return nil, err
			}

			prog.Content = append(prog.Content, list)

		default:
			return nil, p.unexpected(tokText.String(), tokOpen.String())
		}
	}
}

// parseBlock parses: "{{" expressions_list "}}".
func (p *parser) parseBlock() (*ExpressionList, error) {
	open, err := p.expect(tokOpen)
	if err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.logger.TraceContext(p.ctx, "parse block", slog.Any("position", open.pos))

	list, err := p.parseList(open.pos, tokClose)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokClose); err != nil {
		return nil, err
	}

	return list, nil
}

// parseList parses: statement (";" statement)* ";"? up to, but not
// including, one of the terminators.
func (p *parser) parseList(pos Position, terminators ...tokenKind) (*ExpressionList, error) {
	list := &ExpressionList{Pos: pos}

	names := make([]string, 0, len(terminators)+1)
	for _, t := range terminators {
		names = append(names, t.String())
	}

	for {
		if slices.Contains(terminators, p.tok.kind) {
			if len(list.Statements) == 0 {
				return nil, p.unexpected("statement")
			}

			return list, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		list.Statements = append(list.Statements, stmt)

		if p.tok.kind == tokSemi {
			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		if !slices.Contains(terminators, p.tok.kind) {
			return nil, p.unexpected(append(names, tokSemi.String())...)
		}
	}
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.tok.kind {
	case tokIdent:
		return p.parseAssign()

	case tokIf:
		return p.parseIf()

	case tokFor:
		return p.parseFor()

	case tokPrint:
		return p.parsePrint()

	default:
		return nil, p.unexpected(
			tokIdent.String(), tokIf.String(), tokFor.String(), tokPrint.String(),
		)
	}
}

// parseAssign parses: VARIABLE ":=" value.
func (p *parser) parseAssign() (*Assign, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokAssign); err != nil {
		return nil, err
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &Assign{Name: name.text, Value: value, Pos: name.pos}, nil
}

// parseIf parses: "if" value "do" expressions_list "endif".
func (p *parser) parseIf() (*If, error) {
	start, err := p.expect(tokIf)
	if err != nil {
		return nil, err
	}

	cond, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if kind, known := staticKind(cond); known && kind != KindBool {
		return nil, newParseError(p.src, cond.Position(),
			ErrInvalidOperand.
				Wrap(errors.New(kind.String()+" condition for \"if\"")).
				With(slog.String("kind", kind.String())))
	}

	body, err := p.parseBody(tokEndif)
	if err != nil {
		return nil, err
	}

	return &If{Cond: cond, Body: body, Pos: start.pos}, nil
}

// parseFor parses: "for" VARIABLE "in" (VARIABLE | list_literal) "do"
// expressions_list "endfor".
func (p *parser) parseFor() (*For, error) {
	start, err := p.expect(tokFor)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokIn); err != nil {
		return nil, err
	}

	var iter Expr

	switch p.tok.kind {
	case tokIdent:
		iter = &Variable{Name: p.tok.text, Pos: p.tok.pos}

		if err := p.advance(); err != nil {
			return nil, err
		}

	case tokLParen:
		iter, err = p.parseListLiteral()
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.unexpected(tokIdent.String(), tokLParen.String())
	}

	body, err := p.parseBody(tokEndfor)
	if err != nil {
		return nil, err
	}

	return &For{Var: name.text, Iter: iter, Body: body, Pos: start.pos}, nil
}

// parseBody parses: "do" expressions_list end.
func (p *parser) parseBody(end tokenKind) (*ExpressionList, error) {
	do, err := p.expect(tokDo)
	if err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	body, err := p.parseList(do.pos, end)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(end); err != nil {
		return nil, err
	}

	return body, nil
}

// parsePrint parses: "print" value.
func (p *parser) parsePrint() (*Print, error) {
	start, err := p.expect(tokPrint)
	if err != nil {
		return nil, err
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &Print{Value: value, Pos: start.pos}, nil
}

// parseValue parses a full value: one or more "."-joined operands.
func (p *parser) parseValue() (Expr, error) {
	first, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokDot {
		return first, nil
	}

	se := &StringExpr{Operands: []Expr{first}, Pos: first.Position()}

	for p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}

		next, err := p.parseBinary(precOr)
		if err != nil {
			return nil, err
		}

		se.Operands = append(se.Operands, next)
	}

	return se, nil
}

var binaryOps = map[tokenKind]Operator{
	tokPlus:     OpAdd,
	tokMinus:    OpSub,
	tokStar:     OpMul,
	tokSlash:    OpDiv,
	tokAnd:      OpAnd,
	tokOr:       OpOr,
	tokLess:     OpLess,
	tokGreater:  OpGreater,
	tokEqual:    OpEqual,
	tokNotEqual: OpNotEqual,
}

// parseBinary parses a left-associative chain of operators at the given
// precedence level.
func (p *parser) parseBinary(prec int) (Expr, error) {
	if prec >= precPrimary {
		return p.parsePrimary()
	}

	left, err := p.parseBinary(prec + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryOps[p.tok.kind]
		if !ok || op.precedence() != prec {
			return left, nil
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left, err = p.combine(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

// combine builds the node for "left op right" after checking that each
// operand can produce the kind op requires.
func (p *parser) combine(op Operator, left, right Expr) (Expr, error) {
	if err := p.checkOperand(op, left); err != nil {
		return nil, err
	}

	if err := p.checkOperand(op, right); err != nil {
		return nil, err
	}

	if op == OpEqual || op == OpNotEqual {
		lk, lok := staticKind(left)
		rk, rok := staticKind(right)

		if lok && rok && lk != rk {
			return nil, newParseError(p.src, right.Position(),
				ErrInvalidOperand.
					Wrap(errors.New("cannot compare "+lk.String()+" with "+rk.String())).
					With(slog.String("operator", op.String())))
		}
	}

	if op.IsArith() {
		return &ArithExpr{Left: left, Op: op, Right: right, Pos: left.Position()}, nil
	}

	return &BoolExpr{Left: left, Op: op, Right: right, Pos: left.Position()}, nil
}

func (p *parser) checkOperand(op Operator, e Expr) error {
	kind, known := staticKind(e)
	if !known || operandAllowed(op, kind) {
		return nil
	}

	return newParseError(p.src, e.Position(),
		ErrInvalidOperand.
			Wrap(errors.New(kind.String()+" operand for "+strconv.Quote(op.String()))).
			With(
				slog.String("operator", op.String()),
				slog.String("kind", kind.String()),
			))
}

// operandAllowed reports whether a value of the given kind may appear as an
// operand of op.
func operandAllowed(op Operator, kind Kind) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpLess, OpGreater:
		return kind == KindInt

	case OpAnd, OpOr:
		return kind == KindBool

	case OpEqual, OpNotEqual:
		return kind != KindList

	default:
		return false
	}
}

// staticKind returns the kind e always evaluates to, if it is known without
// consulting the scope.
func staticKind(e Expr) (Kind, bool) {
	switch n := e.(type) {
	case *Literal:
		return n.Value.Kind(), true

	case *ArithExpr:
		return KindInt, true

	case *BoolExpr:
		return KindBool, true

	case *StringExpr:
		return KindString, true

	default:
		return 0, false
	}
}

// parsePrimary parses: INTEGER | "-" INTEGER | STRING | "true" | "false" |
// VARIABLE | "(" value ")" | list_literal.
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok

	switch tok.kind {
	case tokInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, newParseError(p.src, tok.pos,
				ErrIntegerRange.With(slog.String("literal", tok.text)))
		}

		return &Literal{Value: Int(n), Pos: tok.pos}, p.advance()

	case tokMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.tok.kind != tokInt {
			return nil, p.unexpected(tokInt.String())
		}

		n, err := strconv.ParseInt("-"+p.tok.text, 10, 64)
		if err != nil {
			return nil, newParseError(p.src, tok.pos,
				ErrIntegerRange.With(slog.String("literal", "-"+p.tok.text)))
		}

		return &Literal{Value: Int(n), Pos: tok.pos}, p.advance()

	case tokString:
		return &Literal{Value: String(tok.text), Pos: tok.pos}, p.advance()

	case tokTrue, tokFalse:
		return &Literal{Value: Bool(tok.kind == tokTrue), Pos: tok.pos}, p.advance()

	case tokIdent:
		return &Variable{Name: tok.text, Pos: tok.pos}, p.advance()

	case tokLParen:
		return p.parseParen()

	default:
		return nil, p.unexpected("value")
	}
}

// parseParen parses a parenthesized value, or a list literal when the first
// value is followed by a comma or the parentheses are empty.
func (p *parser) parseParen() (Expr, error) {
	open, err := p.expect(tokLParen)
	if err != nil {
		return nil, err
	}

	if p.tok.kind == tokRParen {
		return &Literal{Value: List(), Pos: open.pos}, p.advance()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokComma {
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}

		return first, nil
	}

	lit, ok := first.(*Literal)
	if !ok || lit.Value.Kind() != KindString {
		return nil, newParseError(p.src, first.Position(), ErrInvalidListElement)
	}

	items := []string{lit.Value.Str()}

	return p.finishList(open.pos, items)
}

// parseListLiteral parses: "(" (STRING ("," STRING)* ","?)? ")".
func (p *parser) parseListLiteral() (*Literal, error) {
	open, err := p.expect(tokLParen)
	if err != nil {
		return nil, err
	}

	if p.tok.kind == tokRParen {
		return &Literal{Value: List(), Pos: open.pos}, p.advance()
	}

	if p.tok.kind != tokString {
		return nil, newParseError(p.src, p.tok.pos, ErrInvalidListElement,
			tokString.String(), tokRParen.String())
	}

	items := []string{p.tok.text}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.finishList(open.pos, items)
}

// finishList parses the remainder of a list literal after its first element.
func (p *parser) finishList(pos Position, items []string) (*Literal, error) {
	for p.tok.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.tok.kind == tokRParen {
			break
		}

		if p.tok.kind != tokString {
			return nil, newParseError(p.src, p.tok.pos, ErrInvalidListElement,
				tokString.String(), tokRParen.String())
		}

		items = append(items, p.tok.text)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	return &Literal{Value: List(items...), Pos: pos}, nil
}
