package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in the data language:
//
//	{{
//	  log_level := 'debug';
//	  log_pretty := true;
//	}}
//
// Keys are flag names, with underscores in place of hyphens when the name
// would not otherwise be an identifier. A malformed file is reported and
// ignored. Command-line flags override configured values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err)
		}

		frame, err := data.Parse(ctx, string(src))
		if err != nil {
			log.WarnContext(ctx, "ignoring malformed configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		return makeConfig(frame), nil
	}
}

// config implements [kong.Resolver] over the bindings of a configuration file.
type config map[string]any

func makeConfig(frame *lang.Frame) config {
	c := make(config, frame.Len())

	for name, v := range frame.All() {
		c[name] = flagString(v)
	}

	return c
}

// flagString converts v to the form kong decodes flag values from. Integers
// are decoded from strings, and lists use kong's default separator.
func flagString(v lang.Value) any {
	switch v.Kind() {
	case lang.KindInt:
		return strconv.FormatInt(v.Int64(), 10)
	case lang.KindList:
		return strings.Join(v.List(), ",")
	default:
		return v.Native()
	}
}

// Validate implements [kong.Resolver]. Keys matching no flag are logged and
// otherwise ignored.
func (r config) Validate(app *kong.Application) error {
	known := make(map[string]bool)

	for _, group := range app.AllFlags(true) {
		for _, flag := range group {
			known[flag.Name] = true
			known[strings.ReplaceAll(flag.Name, "-", "_")] = true
		}
	}

	for name := range r {
		if !known[name] {
			log.Debug("unknown configuration key", slog.String("key", name))
		}
	}

	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := r[flag.Name]; ok {
		return v, nil
	}

	if v, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
