package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParseString_Structure(t *testing.T) {
	prog, err := ParseString(t.Context(), "Hello, {{print 'hello'.'world'.true.42;}}!")
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Content) != 3 {
		t.Fatalf("content length = %d, want 3", len(prog.Content))
	}

	if txt, ok := prog.Content[0].(*Text); !ok || txt.Value != "Hello, " {
		t.Errorf("content[0] = %#v, want Text %q", prog.Content[0], "Hello, ")
	}

	if txt, ok := prog.Content[2].(*Text); !ok || txt.Value != "!" {
		t.Errorf("content[2] = %#v, want Text %q", prog.Content[2], "!")
	}

	list, ok := prog.Content[1].(*ExpressionList)
	if !ok || len(list.Statements) != 1 {
		t.Fatalf("content[1] = %#v, want one-statement ExpressionList", prog.Content[1])
	}

	pr, ok := list.Statements[0].(*Print)
	if !ok {
		t.Fatalf("statement = %T, want *Print", list.Statements[0])
	}

	se, ok := pr.Value.(*StringExpr)
	if !ok {
		t.Fatalf("print value = %T, want *StringExpr", pr.Value)
	}

	want := []Value{String("hello"), String("world"), Bool(true), Int(42)}
	if len(se.Operands) != len(want) {
		t.Fatalf("operand count = %d, want %d", len(se.Operands), len(want))
	}

	for i, op := range se.Operands {
		lit, ok := op.(*Literal)
		if !ok {
			t.Errorf("operand %d = %T, want *Literal", i, op)

			continue
		}

		if !lit.Value.Equal(want[i]) {
			t.Errorf("operand %d = %v, want %v", i, lit.Value, want[i])
		}
	}
}

func TestParseString_Tree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "precedence",
			input: "{{a := 1 + 2 * 3;}}",
			want: `Program
  ExpressionList
    Assign a
      ArithExpr +
        Literal int 1
        ArithExpr *
          Literal int 2
          Literal int 3
`,
		},
		{
			name:  "left associative",
			input: "{{print 8 - 4 - 2;}}",
			want: `Program
  ExpressionList
    Print
      ArithExpr -
        ArithExpr -
          Literal int 8
          Literal int 4
        Literal int 2
`,
		},
		{
			name:  "logic levels",
			input: "{{print true or false and 1 < 2;}}",
			want: `Program
  ExpressionList
    Print
      BoolExpr or
        Literal bool true
        BoolExpr and
          Literal bool false
          BoolExpr <
            Literal int 1
            Literal int 2
`,
		},
		{
			name:  "concat loosest",
			input: "{{print 'n' . 1 + x;}}",
			want: `Program
  ExpressionList
    Print
      StringExpr
        Literal string 'n'
        ArithExpr +
          Literal int 1
          Variable x
`,
		},
		{
			name:  "statements",
			input: "a{{for i in ('x', 'y') do if i = 'x' do print i; endif; endfor; l := ('z',)}}",
			want: `Program
  Text "a"
  ExpressionList
    For i
      Literal list ('x', 'y')
      ExpressionList
        If
          BoolExpr =
            Variable i
            Literal string 'x'
          ExpressionList
            Print
              Variable i
    Assign l
      Literal list ('z',)
`,
		},
		{
			name:  "negative literal",
			input: "{{print -3 * -2;}}",
			want: `Program
  ExpressionList
    Print
      ArithExpr *
        Literal int -3
        Literal int -2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}

			var sb strings.Builder
			if err := prog.Print(&sb); err != nil {
				t.Fatal(err)
			}

			if got := sb.String(); got != tt.want {
				t.Errorf("tree mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty block", "{{}}", ErrSyntax},
		{"missing separator", "{{a := 1 b := 2}}", ErrSyntax},
		{"missing value", "{{a := ;}}", ErrSyntax},
		{"missing endif", "{{if true do print 1; }}", ErrSyntax},
		{"missing do", "{{for x in ('a') print x; endfor}}", ErrSyntax},
		{"stray endif", "{{endif}}", ErrSyntax},
		{"string iterator", "{{for x in 'abc' do print x; endfor}}", ErrSyntax},
		{"minus variable", "{{print -x;}}", ErrSyntax},
		{"unclosed paren", "{{print (1 + 2;}}", ErrSyntax},
		{"int list element", "{{x := ('a', 1);}}", ErrInvalidListElement},
		{"int first list element", "{{x := (1, 'a');}}", ErrInvalidListElement},
		{"expression in for list", "{{for x in ('a' . 'b') do print x; endfor}}", ErrSyntax},
		{"string arithmetic", "{{print 1 + 'a';}}", ErrInvalidOperand},
		{"bool comparison", "{{print true < 1;}}", ErrInvalidOperand},
		{"int and", "{{print 1 and true;}}", ErrInvalidOperand},
		{"concat in arithmetic", "{{print ('a' . 'b') * 2;}}", ErrInvalidOperand},
		{"mixed equality", "{{print 'a' = 1;}}", ErrInvalidOperand},
		{"list equality", "{{print ('a', 'b') = x;}}", ErrInvalidOperand},
		{"int condition", "{{if 1 + 1 do print 'x'; endif}}", ErrInvalidOperand},
		{"string condition", "{{if 'yes' do print 'x'; endif}}", ErrInvalidOperand},
		{"integer overflow", "{{print 99999999999999999999;}}", ErrIntegerRange},
		{"unterminated", "{{print 1;", ErrUnterminatedBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), tt.input)
			if err == nil {
				t.Fatalf("ParseString(%q) succeeded, want error", tt.input)
			}

			if prog != nil {
				t.Error("partial tree returned with error")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %T is not a *ParseError", err)
			}
		})
	}
}

func TestParseString_ErrorReport(t *testing.T) {
	_, err := ParseString(t.Context(), "ok\n{{a := 1 b}}")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ParseError", err)
	}

	if pe.Pos.Line != 2 || pe.Pos.Column != 10 {
		t.Errorf("position = %s, want 2:10", pe.Pos)
	}

	msg := pe.Error()

	for _, want := range []string{
		"parse error at line 2, column 10",
		`unexpected identifier "b"`,
		"  2 | {{a := 1 b}}",
		"\n" + strings.Repeat(" ", 6+9) + "^",
		`expected: ";", "}}"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message lacks %q:\n%s", want, msg)
		}
	}
}

func TestParser_MaxDepth(t *testing.T) {
	src := "{{if true do if true do print 1; endif; endif;}}"

	if _, err := NewParser(WithMaxDepth(3)).ParseString(t.Context(), src); err != nil {
		t.Errorf("depth 3 within limit: %v", err)
	}

	_, err := NewParser(WithMaxDepth(2)).ParseString(t.Context(), src)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("error = %v, want %v", err, ErrMaxDepthExceeded)
	}

	deep := "{{print " + strings.Repeat("(", 500) + "1" + strings.Repeat(")", 500) + ";}}"

	if _, err := ParseString(t.Context(), deep); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("deep parentheses error = %v, want %v", err, ErrMaxDepthExceeded)
	}

	if _, err := NewParser(WithMaxDepth(0)).ParseString(t.Context(), deep); err != nil {
		t.Errorf("unlimited depth: %v", err)
	}
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(t.Context(), strings.NewReader("x{{print 1;}}"))
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Content) != 2 {
		t.Errorf("content length = %d, want 2", len(prog.Content))
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want %v", err, ErrReadInput)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParser_Reusable(t *testing.T) {
	p := NewParser()

	for _, src := range []string{"{{print 1;}}", "{{print 2;}}", "text"} {
		if _, err := p.ParseString(t.Context(), src); err != nil {
			t.Errorf("ParseString(%q): %v", src, err)
		}
	}
}
