package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// Fmt parses a template and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical template source (default)."`
	JSON   JSON   `cmd:""                    help:"Dump the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Dump the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Dump the syntax tree as an indented outline."`
}

// parseSource reads and parses the template named by name. format names the
// requested output in errors.
func parseSource(ctx context.Context, std Stdio, name, format string) (*lang.Program, error) {
	srcs, err := openSources([]string{name}, std.In)
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	prog, err := lang.ParseReader(ctx, srcs[0], lang.WithLogger(log.Default()))
	if err != nil {
		return nil, ErrParse.With(
			slog.String("format", format),
			slog.String("file", srcs[0].name),
		).Wrap(err)
	}

	return prog, nil
}

// Native formats input as canonical template source.
type Native struct {
	Indent int `default:"0" help:"Indent control block statements by N spaces, one per line (0 keeps blocks on one line)." short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context, std Stdio) error {
	prog, err := parseSource(ctx, std, f.Source, "native")
	if err != nil {
		return err
	}

	return prog.Format(std.Out, f.Indent)
}

// JSON dumps the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)." short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context, std Stdio) error {
	prog, err := parseSource(ctx, std, j.Source, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(std.Out, j.Indent)
}

// YAML dumps the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)." short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context, std Stdio) error {
	prog, err := parseSource(ctx, std, y.Source, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, std.Out, y.Indent)
}

// AST dumps the syntax tree as an indented outline.
type AST struct {
	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context, std Stdio) error {
	prog, err := parseSource(ctx, std, a.Source, "ast")
	if err != nil {
		return err
	}

	return prog.Print(std.Out)
}
