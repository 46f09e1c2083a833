package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dumbo/data"
	"github.com/ardnew/dumbo/lang"
	"github.com/ardnew/dumbo/log"
	"github.com/ardnew/dumbo/profile"
)

// Init writes a configuration file holding the current global flag values.
//
// The file is a data-language block with one assignment per flag. Flag names
// are written with underscores in place of hyphens so that every key is a
// valid identifier.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok || confPath == "" {
		return ErrWriteConfig.Wrap(ErrNoConfigPath)
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	frame := flagFrame(kongContextFrom(ctx))

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	if err := data.Format(file, frame); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", frame.Len()),
	)

	return nil
}

// skipFlag reports whether a global flag is left out of the configuration.
func skipFlag(flag *kong.Flag) bool {
	if flag.Hidden {
		return true
	}

	return slices.ContainsFunc([]string{"help", "version", profile.Tag},
		func(prefix string) bool { return strings.HasPrefix(flag.Name, prefix) })
}

// flagFrame collects the values of the application's global flags. Empty
// strings and empty lists are omitted.
func flagFrame(ktx *kong.Context) *lang.Frame {
	frame := lang.NewFrame()
	if ktx == nil || ktx.Model == nil {
		return frame
	}

	for _, flag := range ktx.Model.Flags {
		if skipFlag(flag) {
			continue
		}

		v, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		frame.Set(strings.ReplaceAll(flag.Name, "-", "_"), v)
	}

	return frame
}

// flagValue converts a flag's current value to a [lang.Value]. Values with
// no direct counterpart are written as their string form.
func flagValue(v any) (lang.Value, bool) {
	if v == nil {
		return lang.Value{}, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return lang.Value{}, false
		}

		return lang.String(rv.String()), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return lang.Value{}, false
		}

		items := make([]string, rv.Len())
		for k := range items {
			items[k] = fmt.Sprint(rv.Index(k).Interface())
		}

		return lang.List(items...), true
	}

	if lv, err := data.FromNative(v); err == nil {
		return lv, true
	}

	return lang.String(fmt.Sprint(v)), true
}
