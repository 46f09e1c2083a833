package data

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// Syntax identifies the encoding of a data document.
type Syntax int

const (
	// Native is the data language: control blocks holding literal
	// assignments.
	Native Syntax = iota
	YAML
	JSON
)

// String returns the lowercase name of the syntax.
func (s Syntax) String() string {
	switch s {
	case Native:
		return "native"
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// SyntaxOf returns the syntax implied by the extension of name.
// Unrecognized extensions select [Native].
func SyntaxOf(name string) Syntax {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	case ".json":
		return JSON
	default:
		return Native
	}
}

// Parse reads bindings from src written in the data language:
//
//	{{ name := 'World'; count := 3; tags := ('a', 'b'); }}
//
// Only literal assignments are allowed inside blocks, and only whitespace
// outside them. Later assignments to a name replace earlier ones.
// Violations are reported as [*lang.ParseError].
func Parse(ctx context.Context, src string, opts ...lang.Option) (*lang.Frame, error) {
	prog, err := lang.ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	frame := lang.NewFrame()

	for _, c := range prog.Content {
		switch n := c.(type) {
		case *lang.Text:
			if strings.TrimSpace(n.Value) != "" {
				return nil, &lang.ParseError{
					Cause:  ErrStrayText.With(slog.String("text", clip(n.Value))),
					Source: src,
					Pos:    textStart(n),
				}
			}

		case *lang.ExpressionList:
			for _, s := range n.Statements {
				name, v, err := literalAssign(src, s)
				if err != nil {
					return nil, err
				}

				frame.Set(name, v)
			}
		}
	}

	return frame, nil
}

func literalAssign(src string, s lang.Statement) (string, lang.Value, error) {
	as, ok := s.(*lang.Assign)
	if !ok {
		return "", lang.Value{}, &lang.ParseError{
			Cause:    lang.ErrSyntax.Wrap(errors.New("only assignments are allowed")),
			Source:   src,
			Pos:      s.Position(),
			Expected: []string{"identifier"},
		}
	}

	lit, ok := as.Value.(*lang.Literal)
	if !ok {
		return "", lang.Value{}, &lang.ParseError{
			Cause:  ErrNotLiteral.With(slog.String("name", as.Name)),
			Source: src,
			Pos:    as.Value.Position(),
		}
	}

	return as.Name, lit.Value, nil
}

// textStart returns the position of the first non-space byte of t.
func textStart(t *lang.Text) lang.Position {
	pos := t.Pos

	for i := 0; i < len(t.Value); i++ {
		switch t.Value[i] {
		case '\n':
			pos.Line++
			pos.Column = 1
		case ' ', '\t', '\r', '\f', '\v':
			pos.Column++
		default:
			return pos
		}

		pos.Offset++
	}

	return pos
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 32 {
		return s[:32] + "..."
	}

	return s
}

// Decode reads a YAML or JSON document whose top level is a mapping from
// variable names to values convertible by [FromNative]. Key order is kept.
// An empty document yields an empty frame.
func Decode(ctx context.Context, r io.Reader, syntax Syntax) (*lang.Frame, error) {
	if syntax == Native {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err)
		}

		return Parse(ctx, string(src))
	}

	var doc any

	// JSON is a subset of YAML, so one decoder serves both.
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	if err := dec.DecodeContext(ctx, &doc); err != nil {
		if errors.Is(err, io.EOF) {
			return lang.NewFrame(), nil
		}

		return nil, ErrDecode.Wrap(err).With(slog.String("syntax", syntax.String()))
	}

	if doc == nil {
		return lang.NewFrame(), nil
	}

	items, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, ErrNotMapping.With(slog.String("syntax", syntax.String()))
	}

	frame := lang.NewFrame()

	for _, item := range items {
		name, ok := item.Key.(string)
		if !ok || !lang.IsIdentifier(name) {
			return nil, ErrInvalidName.With(slog.Any("key", item.Key))
		}

		v, err := FromNative(item.Value)
		if err != nil {
			return nil, withName(err, name)
		}

		frame.Set(name, v)
	}

	return frame, nil
}

// Load decodes r using the syntax implied by name's extension.
func Load(ctx context.Context, name string, r io.Reader) (*lang.Frame, error) {
	syntax := SyntaxOf(name)

	log.TraceContext(ctx, "load data",
		slog.String("name", name),
		slog.String("syntax", syntax.String()),
	)

	frame, err := Decode(ctx, r, syntax)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "loaded data",
		slog.String("name", name),
		slog.Int("bindings", frame.Len()),
	)

	return frame, nil
}

// withName attaches the variable name to a conversion error.
func withName(err error, name string) error {
	var le *lang.Error
	if errors.As(err, &le) {
		return le.With(slog.String("name", name))
	}

	return err
}
