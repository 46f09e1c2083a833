package lang

// Builder constructs syntax trees without parsing source text. Nodes built
// this way carry zero positions.
//
// Example:
//
//	b := lang.NewBuilder()
//	prog := b.Program(
//	    b.Text("Hello, "),
//	    b.Block(
//	        b.Assign("name", b.Str("World")),
//	        b.Print(b.Concat(b.Var("name"), b.Str("!"))),
//	    ),
//	)
type Builder struct{}

// NewBuilder creates a new syntax tree builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program creates a [Program] root.
func (b *Builder) Program(content ...Content) *Program {
	return &Program{Content: content}
}

// Text creates a literal text run.
func (b *Builder) Text(s string) *Text {
	return &Text{Value: s}
}

// Block creates a control block, or any other statement list.
func (b *Builder) Block(stmts ...Statement) *ExpressionList {
	return &ExpressionList{Statements: stmts}
}

// Assign creates an assignment statement.
func (b *Builder) Assign(name string, value Expr) *Assign {
	return &Assign{Name: name, Value: value}
}

// If creates a conditional statement.
func (b *Builder) If(cond Expr, body ...Statement) *If {
	return &If{Cond: cond, Body: b.Block(body...)}
}

// For creates a loop over a variable or list literal.
func (b *Builder) For(name string, iter Expr, body ...Statement) *For {
	return &For{Var: name, Iter: iter, Body: b.Block(body...)}
}

// Print creates a print statement.
func (b *Builder) Print(value Expr) *Print {
	return &Print{Value: value}
}

// Concat creates a string concatenation of operands.
func (b *Builder) Concat(operands ...Expr) *StringExpr {
	return &StringExpr{Operands: operands}
}

// Arith creates an arithmetic expression. op must satisfy
// [Operator.IsArith].
func (b *Builder) Arith(left Expr, op Operator, right Expr) *ArithExpr {
	return &ArithExpr{Left: left, Op: op, Right: right}
}

// Logic creates a logical or comparison expression.
func (b *Builder) Logic(left Expr, op Operator, right Expr) *BoolExpr {
	return &BoolExpr{Left: left, Op: op, Right: right}
}

// Var creates a variable reference.
func (b *Builder) Var(name string) *Variable {
	return &Variable{Name: name}
}

// Lit creates a literal from any [Value].
func (b *Builder) Lit(v Value) *Literal {
	return &Literal{Value: v}
}

// Int creates an integer literal.
func (b *Builder) Int(n int64) *Literal { return b.Lit(Int(n)) }

// Bool creates a boolean literal.
func (b *Builder) Bool(v bool) *Literal { return b.Lit(Bool(v)) }

// Str creates a string literal.
func (b *Builder) Str(s string) *Literal { return b.Lit(String(s)) }

// List creates a list literal.
func (b *Builder) List(items ...string) *Literal { return b.Lit(List(items...)) }
