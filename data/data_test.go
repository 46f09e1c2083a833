package data

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/dumbo/lang"
)

func frameOf(t *testing.T, pairs ...any) *lang.Frame {
	t.Helper()

	f := lang.NewFrame()

	for i := 0; i+1 < len(pairs); i += 2 {
		v, err := FromNative(pairs[i+1])
		if err != nil {
			t.Fatalf("FromNative(%v): %v", pairs[i+1], err)
		}

		f.Set(pairs[i].(string), v)
	}

	return f
}

func assertFrame(t *testing.T, got, want *lang.Frame) {
	t.Helper()

	if !slices.Equal(got.Names(), want.Names()) {
		t.Fatalf("names = %v, want %v", got.Names(), want.Names())
	}

	for name, wv := range want.All() {
		if gv, _ := got.Get(name); !gv.Equal(wv) {
			t.Errorf("%s = %v (%s), want %v (%s)", name, gv, gv.Kind(), wv, wv.Kind())
		}
	}
}

func TestParse(t *testing.T) {
	src := `{{
         a := 42;
         b := 'Hello World!';
         c := true;
         d := false;
         e := ('Hello', 'World!');
    }}`

	got, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	assertFrame(t, got, frameOf(t,
		"a", 42,
		"b", "Hello World!",
		"c", true,
		"d", false,
		"e", []string{"Hello", "World!"},
	))
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *lang.Frame
	}{
		{"empty", "", lang.NewFrame()},
		{"whitespace only", " \n\t ", lang.NewFrame()},
		{"several blocks", "{{a := 1;}}\n\n{{b := 'x'}}\n", frameOf(t, "a", 1, "b", "x")},
		{"later wins", "{{a := 1; a := -2;}}", frameOf(t, "a", -2)},
		{"single element list", "{{l := ('x',); p := ('y');}}", frameOf(t, "l", []string{"x"}, "p", "y")},
		{"empty list", "{{l := ();}}", frameOf(t, "l", []string{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(t.Context(), tt.src)
			if err != nil {
				t.Fatal(err)
			}

			assertFrame(t, got, tt.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"stray text", "{{a := 1;}} oops", ErrStrayText},
		{"expression", "{{a := 1 + 2;}}", ErrNotLiteral},
		{"variable", "{{a := b;}}", ErrNotLiteral},
		{"concatenation", "{{a := 'x' . 'y';}}", ErrNotLiteral},
		{"print", "{{print 1;}}", lang.ErrSyntax},
		{"if", "{{if true do a := 1; endif;}}", lang.ErrSyntax},
		{"syntax", "{{a := ;}}", lang.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(t.Context(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var pe *lang.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %T is not a *lang.ParseError", err)
			}
		})
	}
}

func TestParse_StrayTextPosition(t *testing.T) {
	_, err := Parse(t.Context(), "{{a := 1;}}\n   x")

	var pe *lang.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *lang.ParseError", err)
	}

	if pe.Pos.Line != 2 || pe.Pos.Column != 4 {
		t.Errorf("position = %s, want 2:4", pe.Pos)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		src    string
		want   *lang.Frame
	}{
		{
			name:   "yaml",
			syntax: YAML,
			src:    "name: World\ncount: 3\nneg: -4\nok: true\ntags:\n  - a\n  - b\n",
			want: frameOf(t,
				"name", "World", "count", 3, "neg", -4, "ok", true, "tags", []string{"a", "b"}),
		},
		{
			name:   "json",
			syntax: JSON,
			src:    `{"z": 1, "a": "x", "l": ["p", "q"], "f": 2.0}`,
			want:   frameOf(t, "z", 1, "a", "x", "l", []string{"p", "q"}, "f", 2),
		},
		{
			name:   "native",
			syntax: Native,
			src:    "{{x := 'y';}}",
			want:   frameOf(t, "x", "y"),
		},
		{
			name:   "empty yaml",
			syntax: YAML,
			src:    "",
			want:   lang.NewFrame(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(t.Context(), strings.NewReader(tt.src), tt.syntax)
			if err != nil {
				t.Fatal(err)
			}

			assertFrame(t, got, tt.want)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"sequence", "- a\n- b\n", ErrNotMapping},
		{"scalar", "hello\n", ErrNotMapping},
		{"bad key", "not-an-identifier: 1\n", ErrInvalidName},
		{"keyword key", "print: 1\n", ErrInvalidName},
		{"nested map", "a:\n  b: 1\n", ErrUnsupportedValue},
		{"mixed list", "a: [x, 1]\n", ErrUnsupportedValue},
		{"fraction", "a: 1.5\n", ErrUnsupportedValue},
		{"null", "a: null\n", ErrUnsupportedValue},
		{"malformed", "a: [\n", ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(t.Context(), strings.NewReader(tt.src), YAML)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	got, err := Load(t.Context(), "vars.JSON", strings.NewReader(`{"a": true}`))
	if err != nil {
		t.Fatal(err)
	}

	assertFrame(t, got, frameOf(t, "a", true))
}

func TestSyntaxOf(t *testing.T) {
	for name, want := range map[string]Syntax{
		"x.yaml":    YAML,
		"x.yml":     YAML,
		"x.json":    JSON,
		"x.dumbo":   Native,
		"config":    Native,
		"dir.d/x":   Native,
		"UPPER.YML": YAML,
	} {
		if got := SyntaxOf(name); got != want {
			t.Errorf("SyntaxOf(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		in   any
		want lang.Value
	}{
		{true, lang.Bool(true)},
		{"s", lang.String("s")},
		{int8(-3), lang.Int(-3)},
		{uint32(7), lang.Int(7)},
		{uint64(1 << 40), lang.Int(1 << 40)},
		{float64(-2), lang.Int(-2)},
		{[]any{"a", "b"}, lang.List("a", "b")},
		{[2]string{"c", "d"}, lang.List("c", "d")},
		{lang.Int(9), lang.Int(9)},
	}

	for _, tt := range tests {
		got, err := FromNative(tt.in)
		if err != nil {
			t.Errorf("FromNative(%#v): %v", tt.in, err)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("FromNative(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []any{nil, uint64(1 << 63), 0.25, map[string]any{}, []int{1}, struct{}{}} {
		if _, err := FromNative(in); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("FromNative(%#v) error = %v, want %v", in, err, ErrUnsupportedValue)
		}
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	want := frameOf(t,
		"b", "it's a\n\ttest \\",
		"a", -12,
		"flag", false,
		"one", []string{"x"},
		"none", []string{},
		"many", []string{"p", "q'r"},
	)

	var buf bytes.Buffer
	if err := Format(&buf, want); err != nil {
		t.Fatal(err)
	}

	got, err := Parse(t.Context(), buf.String())
	if err != nil {
		t.Fatalf("Parse(%q): %v", buf.String(), err)
	}

	assertFrame(t, got, want)
}

func TestFormat_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, lang.NewFrame()); err != nil || buf.Len() != 0 {
		t.Errorf("Format(empty) wrote %q, err %v", buf.String(), err)
	}
}
