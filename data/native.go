package data

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"

	"github.com/ardnew/dumbo/lang"
)

// FromNative converts a decoded Go value into a [lang.Value].
//
// Accepted inputs are booleans, strings, integers of any width that fit in
// an int64, floats with no fractional part, and slices or arrays whose
// elements are all strings. A [lang.Value] is returned unchanged. Anything
// else fails with [ErrUnsupportedValue].
func FromNative(v any) (lang.Value, error) {
	switch x := v.(type) {
	case lang.Value:
		return x, nil
	case bool:
		return lang.Bool(x), nil
	case string:
		return lang.String(x), nil
	case []string:
		return lang.List(x...), nil
	case int:
		return lang.Int(int64(x)), nil
	case int8:
		return lang.Int(int64(x)), nil
	case int16:
		return lang.Int(int64(x)), nil
	case int32:
		return lang.Int(int64(x)), nil
	case int64:
		return lang.Int(x), nil
	case uint8:
		return lang.Int(int64(x)), nil
	case uint16:
		return lang.Int(int64(x)), nil
	case uint32:
		return lang.Int(int64(x)), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint64:
		return fromUnsigned(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case nil:
		return lang.Value{}, unsupported(v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return lang.Value{}, unsupported(v)
	}

	items := make([]string, 0, rv.Len())

	for i := range rv.Len() {
		s, ok := rv.Index(i).Interface().(string)
		if !ok {
			return lang.Value{}, ErrUnsupportedValue.With(
				slog.Int("index", i),
				slog.String("type", fmt.Sprintf("%T", rv.Index(i).Interface())),
				slog.String("reason", "list elements must be strings"),
			)
		}

		items = append(items, s)
	}

	return lang.List(items...), nil
}

func fromUnsigned(u uint64) (lang.Value, error) {
	if u > math.MaxInt64 {
		return lang.Value{}, ErrUnsupportedValue.With(
			slog.Uint64("value", u),
			slog.String("reason", "integer out of range"),
		)
	}

	return lang.Int(int64(u)), nil
}

func fromFloat(f float64) (lang.Value, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return lang.Value{}, ErrUnsupportedValue.With(
			slog.Float64("value", f),
			slog.String("reason", "not an integer"),
		)
	}

	return lang.Int(int64(f)), nil
}

func unsupported(v any) error {
	return ErrUnsupportedValue.With(slog.String("type", fmt.Sprintf("%T", v)))
}
