package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/dumbo/lang"
)

// writeFile creates dir/name holding content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// testStdio returns streams reading stdin and capturing output.
func testStdio(stdin string) (Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	return Stdio{In: strings.NewReader(stdin), Out: &out, Err: &errOut}, &out, &errOut
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.dumbo", "A")
	b := writeFile(t, dir, "b.dumbo", "B")

	link := filepath.Join(dir, "link.dumbo")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(cwd, a)
	if err != nil {
		t.Fatal(err)
	}

	srcs, err := openSources([]string{a, "-", link, b, rel, "-"}, strings.NewReader("S"))
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	var names, contents []string

	for _, src := range srcs {
		body, err := io.ReadAll(src)
		if err != nil {
			t.Fatal(err)
		}

		names = append(names, src.name)
		contents = append(contents, string(body))
	}

	if want := []string{a, "<stdin>", b}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	if want := []string{"A", "S", "B"}; !slices.Equal(contents, want) {
		t.Errorf("contents = %v, want %v", contents, want)
	}
}

func TestOpenSources_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "ok.dumbo", "")

	tests := []struct {
		name  string
		names []string
		want  error
	}{
		{"missing", []string{file, filepath.Join(dir, "missing")}, ErrOpenSource},
		{"directory", []string{dir}, ErrIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := openSources(tt.names, nil)
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrOpenSource) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}

			if srcs != nil {
				t.Errorf("sources = %v, want nil on error", srcs)
			}
		})
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	native := writeFile(t, dir, "base.dumbo", "{{ name := 'dumbo'; count := 1; }}")
	sidecar := writeFile(t, dir, "override.yaml", "count: 2\ntags: [a, b]\n")

	frame, err := loadData(t.Context(), []string{native, sidecar, "-"}, strings.NewReader("{{ debug := true }}"))
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]lang.Value{
		"name":  lang.String("dumbo"),
		"count": lang.Int(2),
		"tags":  lang.List("a", "b"),
		"debug": lang.Bool(true),
	}

	if frame.Len() != len(want) {
		t.Errorf("bindings = %v, want %d", frame.Names(), len(want))
	}

	for name, v := range want {
		if got, ok := frame.Get(name); !ok || !got.Equal(v) {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
	}
}

func TestLoadData_Empty(t *testing.T) {
	frame, err := loadData(t.Context(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if frame.Len() != 0 {
		t.Errorf("bindings = %v, want none", frame.Names())
	}
}

func TestLoadData_Error(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "bad.json", "[1, 2]")

	if _, err := loadData(t.Context(), []string{bad}, nil); !errors.Is(err, ErrLoadData) {
		t.Errorf("error = %v, want %v", err, ErrLoadData)
	}
}

func TestKongVar_NoContext(t *testing.T) {
	if v, ok := kongVar(context.Background(), ConfigIdentifier); ok || v != "" {
		t.Errorf("kongVar without kong context = %q, %v", v, ok)
	}
}

func TestStdinOnce(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
		want  error
	}{
		{"none", [][]string{{"a"}, {"b"}}, nil},
		{"data only", [][]string{{"-", "a"}, {"b"}}, nil},
		{"template only", [][]string{nil, {"-", "-"}}, nil},
		{"both", [][]string{{"a", "-"}, {"-"}}, ErrStdinConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := stdinOnce(tt.lists...); !errors.Is(err, tt.want) {
				t.Errorf("stdinOnce(%v) = %v, want %v", tt.lists, err, tt.want)
			}
		})
	}
}

func TestRepl_StdinData(t *testing.T) {
	std, _, _ := testStdio("{{ x := 1 }}")

	err := (&Repl{Data: []string{stdinSource}}).Run(t.Context(), std)
	if !errors.Is(err, ErrStdinConflict) {
		t.Errorf("error = %v, want %v", err, ErrStdinConflict)
	}
}
