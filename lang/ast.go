package lang

import (
	"io"
	"strconv"
	"strings"
)

// Node is implemented by every syntax tree node. The set of node types is
// closed: [Program], [Text], [ExpressionList], [Assign], [If], [For],
// [Print], [StringExpr], [ArithExpr], [BoolExpr], [Variable] and [Literal].
type Node interface {
	Position() Position
	node()
}

// Content is a top-level element of a [Program]: either [*Text] or
// [*ExpressionList].
type Content interface {
	Node
	content()
}

// Statement is one of [*Assign], [*If], [*For] or [*Print].
type Statement interface {
	Node
	statement()
}

// Expr is one of [*StringExpr], [*ArithExpr], [*BoolExpr], [*Variable] or
// [*Literal].
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed document.
type Program struct {
	Content []Content
}

// Text is a run of literal output text.
type Text struct {
	Value string
	Pos   Position
}

// ExpressionList is the statement body of a control block, an if body or a
// for body. Evaluating it opens a new scope frame.
type ExpressionList struct {
	Statements []Statement
	Pos        Position
}

// Assign binds Name to the result of Value.
type Assign struct {
	Name  string
	Value Expr
	Pos   Position
}

// If evaluates Body when Cond is true. There is no else branch.
type If struct {
	Cond Expr
	Body *ExpressionList
	Pos  Position
}

// For binds Var to each element of Iter and evaluates Body. Iter is either a
// [*Variable] or a list [*Literal].
type For struct {
	Var  string
	Iter Expr
	Body *ExpressionList
	Pos  Position
}

// Print appends the stringified Value to the output.
type Print struct {
	Value Expr
	Pos   Position
}

// StringExpr concatenates the stringified operands in order.
type StringExpr struct {
	Operands []Expr
	Pos      Position
}

// ArithExpr applies an integer operator: [OpAdd], [OpSub], [OpMul] or
// [OpDiv].
type ArithExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
	Pos   Position
}

// BoolExpr applies a logical or comparison operator: [OpAnd], [OpOr],
// [OpLess], [OpGreater], [OpEqual] or [OpNotEqual].
type BoolExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
	Pos   Position
}

// Variable is a named reference resolved against the scope at evaluation
// time.
type Variable struct {
	Name string
	Pos  Position
}

// Literal is a constant value.
type Literal struct {
	Value Value
	Pos   Position
}

func (n *Program) Position() Position        { return Position{Line: 1, Column: 1} }
func (n *Text) Position() Position           { return n.Pos }
func (n *ExpressionList) Position() Position { return n.Pos }
func (n *Assign) Position() Position         { return n.Pos }
func (n *If) Position() Position             { return n.Pos }
func (n *For) Position() Position            { return n.Pos }
func (n *Print) Position() Position          { return n.Pos }
func (n *StringExpr) Position() Position     { return n.Pos }
func (n *ArithExpr) Position() Position      { return n.Pos }
func (n *BoolExpr) Position() Position       { return n.Pos }
func (n *Variable) Position() Position       { return n.Pos }
func (n *Literal) Position() Position        { return n.Pos }

func (*Program) node()        {}
func (*Text) node()           {}
func (*ExpressionList) node() {}
func (*Assign) node()         {}
func (*If) node()             {}
func (*For) node()            {}
func (*Print) node()          {}
func (*StringExpr) node()     {}
func (*ArithExpr) node()      {}
func (*BoolExpr) node()       {}
func (*Variable) node()       {}
func (*Literal) node()        {}

func (*Text) content()           {}
func (*ExpressionList) content() {}

func (*Assign) statement() {}
func (*If) statement()     {}
func (*For) statement()    {}
func (*Print) statement()  {}

func (*StringExpr) expr() {}
func (*ArithExpr) expr()  {}
func (*BoolExpr) expr()   {}
func (*Variable) expr()   {}
func (*Literal) expr()    {}

// Operator is a binary operator.
type Operator int

const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /

	OpAnd      // and
	OpOr       // or
	OpLess     // <
	OpGreater  // >
	OpEqual    // =
	OpNotEqual // !=
)

// String returns the operator as written in source.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	default:
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
}

// IsArith reports whether op is an integer arithmetic operator.
func (op Operator) IsArith() bool { return op >= OpAdd && op <= OpDiv }

// IsLogical reports whether op is "and" or "or".
func (op Operator) IsLogical() bool { return op == OpAnd || op == OpOr }

// IsComparison reports whether op compares two operands.
func (op Operator) IsComparison() bool { return op >= OpLess && op <= OpNotEqual }

// precedence levels, lowest first.
const (
	precConcat = iota + 1
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precPrimary
)

func (op Operator) precedence() int {
	switch op {
	case OpMul, OpDiv:
		return precMultiplicative
	case OpAdd, OpSub:
		return precAdditive
	case OpLess, OpGreater, OpEqual, OpNotEqual:
		return precCompare
	case OpAnd:
		return precAnd
	case OpOr:
		return precOr
	default:
		return precPrimary
	}
}

func precedenceOf(e Expr) int {
	switch n := e.(type) {
	case *StringExpr:
		return precConcat
	case *ArithExpr:
		return n.Op.precedence()
	case *BoolExpr:
		return n.Op.precedence()
	default:
		return precPrimary
	}
}

// Print writes an indented tree dump of the program to w.
func (n *Program) Print(w io.Writer) error {
	p := treePrinter{w: w}
	p.line(0, "Program")

	for _, c := range n.Content {
		p.node(1, c)
	}

	return p.err
}

type treePrinter struct {
	w   io.Writer
	err error
}

func (p *treePrinter) line(depth int, parts ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w,
		strings.Repeat("  ", depth)+strings.Join(parts, " ")+"\n")
}

func (p *treePrinter) node(depth int, n Node) {
	switch n := n.(type) {
	case *Text:
		p.line(depth, "Text", strconv.Quote(n.Value))

	case *ExpressionList:
		p.line(depth, "ExpressionList")

		for _, s := range n.Statements {
			p.node(depth+1, s)
		}

	case *Assign:
		p.line(depth, "Assign", n.Name)
		p.node(depth+1, n.Value)

	case *If:
		p.line(depth, "If")
		p.node(depth+1, n.Cond)
		p.node(depth+1, n.Body)

	case *For:
		p.line(depth, "For", n.Var)
		p.node(depth+1, n.Iter)
		p.node(depth+1, n.Body)

	case *Print:
		p.line(depth, "Print")
		p.node(depth+1, n.Value)

	case *StringExpr:
		p.line(depth, "StringExpr")

		for _, op := range n.Operands {
			p.node(depth+1, op)
		}

	case *ArithExpr:
		p.line(depth, "ArithExpr", n.Op.String())
		p.node(depth+1, n.Left)
		p.node(depth+1, n.Right)

	case *BoolExpr:
		p.line(depth, "BoolExpr", n.Op.String())
		p.node(depth+1, n.Left)
		p.node(depth+1, n.Right)

	case *Variable:
		p.line(depth, "Variable", n.Name)

	case *Literal:
		p.line(depth, "Literal", n.Value.Kind().String(), literalSource(n.Value))

	default:
		p.line(depth, "<invalid>")
	}
}
