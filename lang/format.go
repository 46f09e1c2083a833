package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program back as template source. Text runs are written
// verbatim. Control blocks are written on one line when indent is 0, and one
// statement per line indented by indent spaces otherwise.
//
// Parsing the output yields a program that renders identically.
func (n *Program) Format(w io.Writer, indent int) error {
	f := sourceFormatter{indent: indent}

	for _, c := range n.Content {
		switch c := c.(type) {
		case *Text:
			f.sb.WriteString(c.Value)

		case *ExpressionList:
			f.sb.WriteString(openDelim)
			f.list(c, 1)
			f.sb.WriteString(closeDelim)

		default:
			return invalidNode(c)
		}
	}

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatJSON writes the program's syntax tree as JSON.
func (n *Program) FormatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(n.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(n.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program's syntax tree as YAML. An indent of 0
// selects flow style.
func (n *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, n.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatExpr returns the source form of a single expression.
func FormatExpr(e Expr) string {
	var f sourceFormatter

	f.expr(e)

	return f.sb.String()
}

type sourceFormatter struct {
	sb     strings.Builder
	indent int
}

func (f *sourceFormatter) sep(depth int) {
	if f.indent <= 0 {
		f.sb.WriteByte(' ')

		return
	}

	f.sb.WriteByte('\n')
	f.sb.WriteString(strings.Repeat(" ", f.indent*depth))
}

func (f *sourceFormatter) list(l *ExpressionList, depth int) {
	for _, s := range l.Statements {
		f.sep(depth)
		f.statement(s, depth)
		f.sb.WriteByte(';')
	}

	f.sep(depth - 1)
}

func (f *sourceFormatter) statement(s Statement, depth int) {
	switch n := s.(type) {
	case *Assign:
		f.sb.WriteString(n.Name)
		f.sb.WriteString(" := ")
		f.expr(n.Value)

	case *If:
		f.sb.WriteString("if ")
		f.expr(n.Cond)
		f.sb.WriteString(" do")
		f.list(n.Body, depth+1)
		f.sb.WriteString("endif")

	case *For:
		f.sb.WriteString("for ")
		f.sb.WriteString(n.Var)
		f.sb.WriteString(" in ")
		f.expr(n.Iter)
		f.sb.WriteString(" do")
		f.list(n.Body, depth+1)
		f.sb.WriteString("endfor")

	case *Print:
		f.sb.WriteString("print ")
		f.expr(n.Value)
	}
}

func (f *sourceFormatter) expr(e Expr) {
	switch n := e.(type) {
	case *Literal:
		f.sb.WriteString(literalSource(n.Value))

	case *Variable:
		f.sb.WriteString(n.Name)

	case *StringExpr:
		for i, op := range n.Operands {
			if i > 0 {
				f.sb.WriteString(" . ")
			}

			f.operand(op, precConcat, true)
		}

	case *ArithExpr:
		f.binary(n.Left, n.Op, n.Right)

	case *BoolExpr:
		f.binary(n.Left, n.Op, n.Right)
	}
}

func (f *sourceFormatter) binary(left Expr, op Operator, right Expr) {
	prec := op.precedence()

	f.operand(left, prec, false)
	f.sb.WriteByte(' ')
	f.sb.WriteString(op.String())
	f.sb.WriteByte(' ')
	f.operand(right, prec, true)
}

// operand writes e, parenthesized if it binds looser than its parent.
// Operators are left-associative, so a right operand of equal precedence is
// parenthesized as well.
func (f *sourceFormatter) operand(e Expr, prec int, right bool) {
	p := precedenceOf(e)
	if p < prec || (right && p == prec) {
		f.sb.WriteByte('(')
		f.expr(e)
		f.sb.WriteByte(')')

		return
	}

	f.expr(e)
}

// literalSource returns the source form of v.
func literalSource(v Value) string {
	switch v.Kind() {
	case KindString:
		return quoteSource(v.Str())

	case KindList:
		items := v.List()

		var sb strings.Builder

		sb.WriteByte('(')

		for i, s := range items {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(quoteSource(s))
		}

		// A one-element list needs a trailing comma to differ from a
		// parenthesized string.
		if len(items) == 1 {
			sb.WriteByte(',')
		}

		sb.WriteByte(')')

		return sb.String()

	default:
		return v.String()
	}
}

// quoteSource quotes s as a single-quoted string literal.
func quoteSource(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(ch)
		}
	}

	sb.WriteByte('\'')

	return sb.String()
}

// LiteralSource returns the source form of a value, suitable for the right
// side of an assignment.
func LiteralSource(v Value) string { return literalSource(v) }
