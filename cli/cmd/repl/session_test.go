package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
)

func testSession(t *testing.T, pairs ...any) *session {
	t.Helper()

	frame := lang.NewFrame()

	for i := 0; i+1 < len(pairs); i += 2 {
		v, err := data.FromNative(pairs[i+1])
		if err != nil {
			t.Fatal(err)
		}

		frame.Set(pairs[i].(string), v)
	}

	return newSession(makeConfig(WithData(frame)))
}

func TestSession_Evaluate(t *testing.T) {
	s := testSession(t, "name", "world", "count", 1)
	ctx := t.Context()

	steps := []struct {
		line string
		want string
	}{
		{"Hello {{ print name }}!", "Hello world!"},
		{"{{ count := count + 1 }}", ""},
		{"{{ print count * 3 }}", "6"},
		{"{{ for x in ('a', 'b') do print x; endfor }}", "ab"},
		{"{{ n := 5; print n }}", "5"},
	}

	for _, step := range steps {
		tree, got, err := s.evaluate(ctx, step.line)
		if err != nil {
			t.Fatalf("evaluate(%q): %v", step.line, err)
		}

		if tree != "" {
			t.Errorf("evaluate(%q) tree = %q, want none", step.line, tree)
		}

		if got != step.want {
			t.Errorf("evaluate(%q) = %q, want %q", step.line, got, step.want)
		}
	}

	// Updates to base bindings persist; new names are local to their block.
	if v, ok := s.base().Get("count"); !ok || !v.Equal(lang.Int(2)) {
		t.Errorf("base count = %v, %v; want 2", v, ok)
	}

	if _, _, err := s.evaluate(ctx, "{{ print n }}"); !errors.Is(err, lang.ErrBadReference) {
		t.Errorf("block-local binding leaked: error = %v", err)
	}
}

func TestSession_EvaluateErrors(t *testing.T) {
	s := testSession(t)
	ctx := t.Context()

	if _, _, err := s.evaluate(ctx, "{{ print"); err == nil {
		t.Error("parse error not reported")
	}

	_, text, err := s.evaluate(ctx, "before {{ print missing }}")
	if !errors.Is(err, lang.ErrBadReference) {
		t.Errorf("error = %v, want %v", err, lang.ErrBadReference)
	}

	if text != "before " {
		t.Errorf("partial output = %q, want %q", text, "before ")
	}
}

func TestSession_AST(t *testing.T) {
	s := testSession(t)
	ctx := t.Context()

	out, err := s.execute(ctx, "ast", "")
	if err != nil || out != "syntax tree dump on" {
		t.Fatalf("ast = %q, %v", out, err)
	}

	tree, text, err := s.evaluate(ctx, "hi")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(tree, "Program") || !strings.Contains(tree, "Text") {
		t.Errorf("tree = %q", tree)
	}

	if text != "hi" {
		t.Errorf("text = %q, want hi", text)
	}

	if out, _ := s.execute(ctx, "ast", ""); out != "syntax tree dump off" {
		t.Errorf("second ast = %q", out)
	}
}

func TestSession_Commands(t *testing.T) {
	s := testSession(t, "name", "world")
	ctx := t.Context()

	steps := []struct {
		name, args string
		want       string
	}{
		{"set", "count := 3; tags := ('a', 'b')", "count := 3\ntags := ('a', 'b')"},
		{"let", "double = count * 2", "double := 6"},
		{"let", "shout = upper(name) + '!'", "shout := 'WORLD!'"},
		{"unset", "tags shout", "unset tags, shout"},
		{"vars", "", "{{\n  name := 'world';\n  count := 3;\n  double := 6;\n}}"},
	}

	for _, step := range steps {
		got, err := s.execute(ctx, step.name, step.args)
		if err != nil {
			t.Fatalf("%s %s: %v", step.name, step.args, err)
		}

		if got != step.want {
			t.Errorf("%s %s = %q, want %q", step.name, step.args, got, step.want)
		}
	}
}

func TestSession_CommandErrors(t *testing.T) {
	s := testSession(t, "name", "world")
	ctx := t.Context()

	tests := []struct {
		name, args string
		want       error
	}{
		{"bogus", "", ErrUnknownCommand},
		{"set", "", ErrUsage},
		{"set", "x := y", data.ErrNotLiteral},
		{"let", "x", ErrUsage},
		{"let", "= 1", ErrUsage},
		{"let", "if = 1", data.ErrInvalidName},
		{"let", "x = nosuch(1)", data.ErrExpression},
		{"unset", "", ErrUsage},
		{"unset", "name missing", ErrUndefinedName},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.args, func(t *testing.T) {
			if _, err := s.execute(ctx, tt.name, tt.args); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	// A failed unset removes nothing.
	if !s.base().Has("name") {
		t.Error("name was removed by a failed unset")
	}
}

func TestSession_EmptyVars(t *testing.T) {
	s := testSession(t)

	if got, err := s.vars(); err != nil || got != "(no bindings)" {
		t.Errorf("vars() = %q, %v", got, err)
	}
}

func TestSession_Replace(t *testing.T) {
	s := testSession(t, "a", 1, "b", 2)

	next := lang.NewFrame()
	next.Set("c", lang.String("x"))

	s.replace(next)

	if got := s.base().Names(); len(got) != 1 || got[0] != "c" {
		t.Errorf("names after replace = %v, want [c]", got)
	}

	_, text, err := s.evaluate(t.Context(), "{{ print c }}")
	if err != nil {
		t.Fatal(err)
	}

	if text != "x" {
		t.Errorf("print c = %q, want x", text)
	}
}

func TestHelpMessage(t *testing.T) {
	help := helpMessage()

	for _, name := range commandNames() {
		if !strings.Contains(help, "  "+name) {
			t.Errorf("help is missing command %q", name)
		}
	}
}
