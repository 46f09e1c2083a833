package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// Render evaluates one or more templates and writes the concatenated output.
//
// Templates are rendered in order by a single evaluator, so a template that
// assigns to a data variable changes the value seen by the templates after it.
// When a template fails, the output produced before the failure is still
// written to stdout, and the --output file is left untouched.
type Render struct {
	Source []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin." name:"source" optional:""`

	Data     []string          `help:"Data file(s) binding variables (.dumbo, .yaml, .yml, .json)." placeholder:"FILE"      short:"d"`
	Set      map[string]string `help:"Bind NAME to the value of expr-lang expression EXPR."        placeholder:"NAME=EXPR" short:"s" mapsep:"none"`
	Output   string            `help:"Write output to FILE instead of stdout."                     placeholder:"FILE"      short:"o"`
	Verbose  bool              `help:"Echo output to stdout as it is produced."                                            short:"v"`
	MaxDepth int               `help:"Limit on nested blocks and parentheses (0 disables)." default:"100"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, std Stdio) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := stdinOnce(r.Data, r.Source); err != nil {
		return err
	}

	seed, err := loadData(ctx, r.Data, std.In)
	if err != nil {
		return err
	}

	if err := data.Bind(seed, slices.Sorted(maps.Keys(r.Set)), r.Set); err != nil {
		return ErrBindValue.Wrap(err)
	}

	opts := []lang.Option{
		lang.WithData(seed),
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithLogger(log.Default()),
	}

	// Echoed output already reaches stdout, so stdout is not written again.
	sink := r.Output != "" || !r.Verbose
	if r.Verbose {
		opts = append(opts, lang.WithEcho(std.Out))
	}

	out, err := r.render(ctx, std.In, opts)
	if err != nil {
		// Output produced before the failure still reaches stdout, unless it
		// was echoed there already. The output file is never written.
		if !r.Verbose && out != "" {
			_, _ = io.WriteString(std.Out, out)
		}

		return err
	}

	if !sink {
		return nil
	}

	return r.write(std.Out, out)
}

// render parses and evaluates every source in order. On failure it returns
// the output produced so far along with the error.
func (r *Render) render(ctx context.Context, stdin io.Reader, opts []lang.Option) (string, error) {
	srcs, err := openSources(r.Source, stdin)
	if err != nil {
		return "", err
	}
	defer closeSources(srcs)

	parser := lang.NewParser(opts...)
	eval := lang.NewEvaluator(opts...)

	var out strings.Builder

	for _, src := range srcs {
		prog, err := parser.ParseReader(ctx, src)
		if err != nil {
			return out.String(), ErrParse.With(slog.String("file", src.name)).Wrap(err)
		}

		text, err := eval.Evaluate(ctx, prog)
		out.WriteString(text)

		if err != nil {
			return out.String(), ErrRender.With(slog.String("file", src.name)).Wrap(err)
		}

		log.DebugContext(ctx, "rendered",
			slog.String("file", src.name),
			slog.Int("bytes", len(text)),
		)
	}

	return out.String(), nil
}

// write sends the rendered text to stdout or, with --output, to a file that
// is only created once rendering has succeeded.
func (r *Render) write(stdout io.Writer, text string) error {
	if r.Output == "" {
		if _, err := io.WriteString(stdout, text); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(r.Output, []byte(text), 0o644); err != nil {
		return ErrWriteOutput.With(slog.String("file", r.Output)).Wrap(err)
	}

	return nil
}
