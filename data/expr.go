package data

import (
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/ardnew/dumbo/lang"
)

// Env returns the bindings of frame as expression variables. Integers are
// exposed as int so that expression arithmetic needs no conversions.
func Env(frame *lang.Frame) map[string]any {
	env := make(map[string]any, frame.Len())

	for name, v := range frame.All() {
		env[name] = envValue(v)
	}

	return env
}

func envValue(v lang.Value) any {
	if v.Kind() == lang.KindInt {
		return int(v.Int64())
	}

	return v.Native()
}

// Eval evaluates the expr-lang expression src with env as its variables
// and converts the result with [FromNative].
//
//	v, err := data.Eval(`upper(name) + "!"`, data.Env(frame))
func Eval(src string, env map[string]any) (lang.Value, error) {
	out, err := expr.Eval(src, env)
	if err == nil {
		var v lang.Value
		if v, err = FromNative(out); err == nil {
			return v, nil
		}
	}

	return lang.Value{}, ErrExpression.Wrap(err).With(slog.String("expr", src))
}

// Bind evaluates exprs[name] for each of names in order and assigns the
// result to name in frame. Each expression sees the bindings of frame,
// including results assigned before it.
func Bind(frame *lang.Frame, names []string, exprs map[string]string) error {
	env := Env(frame)

	for _, name := range names {
		if !lang.IsIdentifier(name) {
			return ErrInvalidName.With(slog.String("name", name))
		}

		v, err := Eval(exprs[name], env)
		if err != nil {
			return withName(err, name)
		}

		frame.Set(name, v)
		env[name] = envValue(v)
	}

	return nil
}
