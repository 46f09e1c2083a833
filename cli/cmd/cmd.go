package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// kongVar returns the kong variable named key, if the context holds a
// kong.Context that defines it.
func kongVar(ctx context.Context, key string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[key]

	return v, ok
}

// Stdio holds the standard streams of a command. It is bound by the CLI so
// that Run methods can receive it as a parameter.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OSStdio returns the process's standard streams.
func OSStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// stdinSource is the source name selecting standard input.
const stdinSource = "-"

// source is an opened template or data input.
type source struct {
	name string
	io.ReadCloser
}

// openSources opens the named inputs in order.
//
// A file named more than once, whether through symlinks, relative and
// absolute paths, or hard links, is opened only at its first occurrence.
// Every "-" after the first is likewise dropped. On error, the inputs already
// opened are closed.
func openSources(names []string, stdin io.Reader) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	var (
		seen     []os.FileInfo
		hasStdin bool
	)

	for _, name := range names {
		if name == stdinSource {
			if !hasStdin {
				hasStdin = true
				srcs = append(srcs, source{name: "<stdin>", ReadCloser: io.NopCloser(stdin)})
			}

			continue
		}

		info, err := os.Stat(name)
		if err != nil {
			return srcs, ErrOpenSource.With(slog.String("file", name)).Wrap(err)
		}

		if info.IsDir() {
			return srcs, ErrOpenSource.With(slog.String("file", name)).Wrap(ErrIsDirectory)
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool { return os.SameFile(fi, info) }) {
			log.Debug("skip duplicate source", slog.String("file", name))

			continue
		}

		file, err := os.Open(name)
		if err != nil {
			return srcs, ErrOpenSource.With(slog.String("file", name)).Wrap(err)
		}

		seen = append(seen, info)
		srcs = append(srcs, source{name: name, ReadCloser: file})
	}

	return srcs, nil
}

// stdinOnce fails if more than one of the given input lists names stdin.
// Whichever list is read first would consume it, leaving the others empty.
func stdinOnce(lists ...[]string) error {
	var n int

	for _, names := range lists {
		if slices.Contains(names, stdinSource) {
			n++
		}
	}

	if n > 1 {
		return ErrStdinConflict
	}

	return nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// loadData decodes each named data file and merges them in order into one
// frame. Later files override earlier bindings.
func loadData(ctx context.Context, names []string, stdin io.Reader) (*lang.Frame, error) {
	frame := lang.NewFrame()

	srcs, err := openSources(names, stdin)
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	for _, src := range srcs {
		f, err := data.Load(ctx, src.name, src)
		if err != nil {
			return nil, ErrLoadData.With(slog.String("file", src.name)).Wrap(err)
		}

		frame.Merge(f)
	}

	return frame, nil
}
