package lang

import (
	"errors"
	"testing"
)

func lexAll(t *testing.T, src string) ([]token, error) {
	t.Helper()

	l := newLexer(src)

	var toks []token

	for {
		tok, err := l.next()
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)

		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenKind
	}{
		{
			name:  "text only",
			input: "abc } { def",
			want:  []tokenKind{tokText, tokEOF},
		},
		{
			name:  "empty block body",
			input: "{{ }}",
			want:  []tokenKind{tokOpen, tokClose, tokEOF},
		},
		{
			name:  "assignment",
			input: "x{{a:=1;}}y",
			want: []tokenKind{
				tokText, tokOpen, tokIdent, tokAssign, tokInt, tokSemi, tokClose, tokText, tokEOF,
			},
		},
		{
			name:  "operators",
			input: "{{+-*/<>= != . , ( ) }}",
			want: []tokenKind{
				tokOpen, tokPlus, tokMinus, tokStar, tokSlash, tokLess, tokGreater,
				tokEqual, tokNotEqual, tokDot, tokComma, tokLParen, tokRParen, tokClose, tokEOF,
			},
		},
		{
			name:  "keywords",
			input: "{{if do endif for in endfor print and or true false}}",
			want: []tokenKind{
				tokOpen, tokIf, tokDo, tokEndif, tokFor, tokIn, tokEndfor,
				tokPrint, tokAnd, tokOr, tokTrue, tokFalse, tokClose, tokEOF,
			},
		},
		{
			name:  "keyword prefix is identifier",
			input: "{{iffy printer True}}",
			want:  []tokenKind{tokOpen, tokIdent, tokIdent, tokIdent, tokClose, tokEOF},
		},
		{
			name:  "adjacent blocks",
			input: "{{}}{{}}",
			want:  []tokenKind{tokOpen, tokClose, tokOpen, tokClose, tokEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexAll(t, tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}

			for i, tok := range toks {
				if tok.kind != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, tok.kind, tt.want[i])
				}
			}
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{{'plain'}}`, "plain"},
		{`{{''}}`, ""},
		{`{{'a\nb'}}`, "a\nb"},
		{`{{'a\tb'}}`, "a\tb"},
		{`{{'back\\slash'}}`, `back\slash`},
		{`{{'it\'s'}}`, "it's"},
		{`{{'keep \x'}}`, `keep \x`},
		{"{{'multi\nline'}}", "multi\nline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := lexAll(t, tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if toks[1].kind != tokString || toks[1].text != tt.want {
				t.Errorf("got %s %q, want string %q", toks[1].kind, toks[1].text, tt.want)
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	toks, err := lexAll(t, "ab\n{{ x\n  := 1 }}")
	if err != nil {
		t.Fatal(err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},  // text
		{Offset: 3, Line: 2, Column: 1},  // {{
		{Offset: 6, Line: 2, Column: 4},  // x
		{Offset: 10, Line: 3, Column: 3}, // :=
		{Offset: 13, Line: 3, Column: 6}, // 1
		{Offset: 15, Line: 3, Column: 8}, // }}
	}

	for i, pos := range want {
		if toks[i].pos != pos {
			t.Errorf("token %d (%s) at %+v, want %+v", i, toks[i].kind, toks[i].pos, pos)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unterminated block", "{{ print 1;", ErrUnterminatedBlock},
		{"unterminated string", "{{ 'abc }}", ErrUnterminatedString},
		{"dangling escape", `{{ 'abc\`, ErrUnterminatedString},
		{"lone colon", "{{ a : 1 }}", ErrUnexpectedChar},
		{"lone bang", "{{ !a }}", ErrUnexpectedChar},
		{"unknown char", "{{ a := 1 % 2 }}", ErrUnexpectedChar},
		{"lone brace", "{{ } }}", ErrUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexAll(t, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %T is not a *ParseError", err)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"_x9", true},
		{"CamelCase", true},
		{"", false},
		{"9a", false},
		{"a-b", false},
		{"print", false},
		{"Print", true},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.name); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestKeywords(t *testing.T) {
	kw := Keywords()
	if len(kw) != len(keywords) {
		t.Fatalf("Keywords() has %d entries, want %d", len(kw), len(keywords))
	}

	for _, k := range kw {
		if !IsKeyword(k) {
			t.Errorf("IsKeyword(%q) = false", k)
		}
	}
}
