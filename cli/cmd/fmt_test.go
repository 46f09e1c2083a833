package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/dumbo/lang"
)

const fmtSource = "x{{ a:=1;if a>0 do print a ;endif }}y"

func TestNative_Run(t *testing.T) {
	tests := []struct {
		indent int
		want   string
	}{
		{0, "x{{ a := 1; if a > 0 do print a; endif; }}y"},
		{2, "x{{\n  a := 1;\n  if a > 0 do\n    print a;\n  endif;\n}}y"},
	}

	for _, tt := range tests {
		std, out, _ := testStdio(fmtSource)

		cmd := &Native{Indent: tt.indent, Source: stdinSource}
		if err := cmd.Run(t.Context(), std); err != nil {
			t.Fatal(err)
		}

		if got := out.String(); got != tt.want {
			t.Errorf("indent %d = %q, want %q", tt.indent, got, tt.want)
		}
	}
}

func TestNative_RunFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.dumbo", "{{print 'hi'}}")
	std, out, _ := testStdio("")

	if err := (&Native{Source: path}).Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "{{ print 'hi'; }}"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestJSON_Run(t *testing.T) {
	std, out, _ := testStdio(fmtSource)

	if err := (&JSON{Indent: 2, Source: stdinSource}).Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}

	if doc["type"] != "Program" {
		t.Errorf("root type = %v, want Program", doc["type"])
	}

	if content, _ := doc["content"].([]any); len(content) != 3 {
		t.Errorf("content = %v, want 3 nodes", doc["content"])
	}
}

func TestYAML_Run(t *testing.T) {
	for _, indent := range []int{0, 2} {
		std, out, _ := testStdio(fmtSource)

		if err := (&YAML{Indent: indent, Source: stdinSource}).Run(t.Context(), std); err != nil {
			t.Fatal(err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML %q: %v", out.String(), err)
		}

		if doc["type"] != "Program" {
			t.Errorf("indent %d: root type = %v, want Program", indent, doc["type"])
		}
	}
}

func TestAST_Run(t *testing.T) {
	std, out, _ := testStdio(fmtSource)

	if err := (&AST{Source: stdinSource}).Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "Program" {
		t.Errorf("first line = %q, want Program", lines[0])
	}

	if lines[1] != `  Text "x"` {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestFmt_ParseError(t *testing.T) {
	std, out, _ := testStdio("{{ print ")

	err := (&Native{Source: stdinSource}).Run(t.Context(), std)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want %v", err, ErrParse)
	}

	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error %v does not carry a parse error", err)
	}

	if out.Len() != 0 {
		t.Errorf("output on error = %q", out.String())
	}
}

func TestFmt_MissingSource(t *testing.T) {
	std, _, _ := testStdio("")

	err := (&AST{Source: "no/such/file.dumbo"}).Run(t.Context(), std)
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("error = %v, want %v", err, ErrOpenSource)
	}
}
