package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/dumbo/log"
)

// Evaluator executes a [Program] against a [Scope] and accumulates the
// rendered output. An Evaluator owns its scope; use one per goroutine.
type Evaluator struct {
	scope  *Scope
	out    strings.Builder
	echo   io.Writer
	logger log.Logger
}

// NewEvaluator returns an Evaluator whose scope is seeded from [WithData].
func NewEvaluator(opts ...Option) *Evaluator {
	o := makeOptions(opts...)

	return &Evaluator{
		scope:  NewScope(o.data),
		echo:   o.echo,
		logger: o.logger,
	}
}

// Scope returns the evaluator's live scope.
func (e *Evaluator) Scope() *Scope { return e.scope }

// Evaluate runs prog and returns its output. If evaluation fails, the output
// produced before the failure is returned along with the error.
//
// The scope persists across calls, so bindings made in the outermost frame
// by one call are visible to the next.
func (e *Evaluator) Evaluate(ctx context.Context, prog *Program) (string, error) {
	e.out.Reset()

	if prog == nil {
		return "", nil
	}

	e.logger.TraceContext(ctx, "evaluate start",
		slog.Int("content_count", len(prog.Content)),
		slog.Int("scope_depth", e.scope.Depth()),
	)

	for _, c := range prog.Content {
		if err := e.evalContent(ctx, c); err != nil {
			e.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

			return e.out.String(), err
		}
	}

	e.logger.TraceContext(ctx, "evaluate complete", slog.Int("output_length", e.out.Len()))

	return e.out.String(), nil
}

// Render parses src and evaluates it with a new [Evaluator]. The same
// options configure both stages.
func Render(ctx context.Context, src string, opts ...Option) (string, error) {
	prog, err := ParseString(ctx, src, opts...)
	if err != nil {
		return "", err
	}

	return NewEvaluator(opts...).Evaluate(ctx, prog)
}

func (e *Evaluator) emit(s string) error {
	e.out.WriteString(s)

	if e.echo != nil && s != "" {
		if _, err := io.WriteString(e.echo, s); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

func (e *Evaluator) evalContent(ctx context.Context, c Content) error {
	switch n := c.(type) {
	case *Text:
		return e.emit(n.Value)

	case *ExpressionList:
		return e.evalList(ctx, n)

	default:
		return invalidNode(c)
	}
}

// evalList evaluates the statements of l inside a fresh scope frame.
func (e *Evaluator) evalList(ctx context.Context, l *ExpressionList) error {
	if l == nil {
		return invalidNode(l)
	}

	e.scope.Push()
	defer e.scope.Pop()

	e.logger.TraceContext(ctx, "scope push", slog.Int("depth", e.scope.Depth()))

	for _, s := range l.Statements {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.evalStatement(ctx, s); err != nil {
			return err
		}
	}

	e.logger.TraceContext(ctx, "scope pop", slog.Int("depth", e.scope.Depth()))

	return nil
}

func (e *Evaluator) evalStatement(ctx context.Context, s Statement) error {
	switch n := s.(type) {
	case *Assign:
		v, err := e.evalExpr(n.Value)
		if err != nil {
			return err
		}

		e.logger.TraceContext(ctx, "assign",
			slog.String("name", n.Name),
			slog.String("kind", v.Kind().String()),
		)

		e.scope.Write(n.Name, v)

		return nil

	case *If:
		cond, err := e.evalExpr(n.Cond)
		if err != nil {
			return err
		}

		if cond.Kind() != KindBool {
			return mismatch("if", cond, n.Cond)
		}

		if !cond.Bool() {
			return nil
		}

		return e.evalList(ctx, n.Body)

	case *For:
		items, err := e.iterItems(n.Iter)
		if err != nil {
			return err
		}

		for _, item := range items {
			// The loop variable lives in the enclosing frame so that it
			// keeps its last value after the loop.
			e.scope.Write(n.Var, String(item))

			if err := e.evalList(ctx, n.Body); err != nil {
				return err
			}
		}

		return nil

	case *Print:
		v, err := e.evalExpr(n.Value)
		if err != nil {
			return err
		}

		return e.emit(v.String())

	default:
		return invalidNode(s)
	}
}

func (e *Evaluator) iterItems(iter Expr) ([]string, error) {
	switch n := iter.(type) {
	case *Variable:
		v, err := e.evalExpr(n)
		if err != nil {
			return nil, err
		}

		if v.Kind() != KindList {
			return nil, &NotIterableError{Name: n.Name, Kind: v.Kind(), Pos: n.Pos}
		}

		return v.List(), nil

	case *Literal:
		if n.Value.Kind() != KindList {
			return nil, mismatch("for", n.Value, n)
		}

		return n.Value.List(), nil

	default:
		return nil, invalidNode(iter)
	}
}

func (e *Evaluator) evalExpr(x Expr) (Value, error) {
	switch n := x.(type) {
	case *Literal:
		return n.Value, nil

	case *Variable:
		if !e.scope.Contains(n.Name) {
			return Value{}, &BadReferenceError{Name: n.Name, Pos: n.Pos}
		}

		return e.scope.Read(n.Name)

	case *StringExpr:
		var sb strings.Builder

		for _, op := range n.Operands {
			v, err := e.evalExpr(op)
			if err != nil {
				return Value{}, err
			}

			sb.WriteString(v.String())
		}

		return String(sb.String()), nil

	case *ArithExpr:
		return e.evalArith(n)

	case *BoolExpr:
		return e.evalBool(n)

	default:
		return Value{}, invalidNode(x)
	}
}

func (e *Evaluator) evalArith(n *ArithExpr) (Value, error) {
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return Value{}, err
	}

	right, err := e.evalExpr(n.Right)
	if err != nil {
		return Value{}, err
	}

	if left.Kind() != KindInt {
		return Value{}, mismatch(n.Op.String(), left, n.Left)
	}

	if right.Kind() != KindInt {
		return Value{}, mismatch(n.Op.String(), right, n.Right)
	}

	a, b := left.Int64(), right.Int64()

	var (
		c  int64
		ok bool
	)

	switch n.Op {
	case OpAdd:
		c, ok = addInt(a, b)

	case OpSub:
		c, ok = subInt(a, b)

	case OpMul:
		c, ok = mulInt(a, b)

	case OpDiv:
		if b == 0 {
			return Value{}, ErrDivisionByZero.With(slog.Any("position", n.Right.Position()))
		}

		c, ok = floorDiv(a, b), a != math.MinInt64 || b != -1

	default:
		return Value{}, invalidNode(n)
	}

	if !ok {
		return Value{}, ErrIntegerOverflow.With(
			slog.String("op", n.Op.String()),
			slog.Int64("left", a),
			slog.Int64("right", b),
			slog.Any("position", n.Position()),
		)
	}

	return Int(c), nil
}

// addInt, subInt and mulInt report false when the result does not fit in
// an int64.
func addInt(a, b int64) (int64, bool) {
	c := a + b

	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b

	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return c, false
	}

	return c, c/b == a
}

// floorDiv divides a by b rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

// evalBool evaluates both operands unconditionally; "and" and "or" do not
// short-circuit.
func (e *Evaluator) evalBool(n *BoolExpr) (Value, error) {
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return Value{}, err
	}

	right, err := e.evalExpr(n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case OpAnd, OpOr:
		if left.Kind() != KindBool {
			return Value{}, mismatch(n.Op.String(), left, n.Left)
		}

		if right.Kind() != KindBool {
			return Value{}, mismatch(n.Op.String(), right, n.Right)
		}

		if n.Op == OpAnd {
			return Bool(left.Bool() && right.Bool()), nil
		}

		return Bool(left.Bool() || right.Bool()), nil

	case OpLess, OpGreater:
		if left.Kind() != KindInt {
			return Value{}, mismatch(n.Op.String(), left, n.Left)
		}

		if right.Kind() != KindInt {
			return Value{}, mismatch(n.Op.String(), right, n.Right)
		}

		if n.Op == OpLess {
			return Bool(left.Int64() < right.Int64()), nil
		}

		return Bool(left.Int64() > right.Int64()), nil

	case OpEqual, OpNotEqual:
		if left.Kind() != right.Kind() {
			return Value{}, mismatch(n.Op.String(), right, n.Right)
		}

		eq := left.Equal(right)
		if n.Op == OpNotEqual {
			eq = !eq
		}

		return Bool(eq), nil

	default:
		return Value{}, invalidNode(n)
	}
}

func mismatch(op string, v Value, at Node) error {
	attrs := []slog.Attr{
		slog.String("operator", op),
		slog.String("kind", v.Kind().String()),
	}

	if at != nil {
		attrs = append(attrs, slog.Any("position", at.Position()))
	}

	if n, ok := at.(*Variable); ok {
		attrs = append(attrs, slog.String("name", n.Name))
	}

	return ErrTypeMismatch.
		Wrap(errors.New(v.Kind().String() + " operand for " + strconv.Quote(op))).
		With(attrs...)
}

func invalidNode(n Node) error {
	return ErrInvalidNode.With(slog.String("type", nodeType(n)))
}
