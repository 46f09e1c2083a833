// Package log provides leveled structured logging based on [log/slog], with
// an additional [LevelTrace] below debug.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("render complete", slog.Int("bytes", n))
//
// Options configure a logger when it is made, or derive a new one with
// [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Zero Value
//
// The zero [Logger] writes nothing. Packages that accept a Logger through an
// option can log unconditionally and leave the decision to the caller.
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that starts out as text on standard error at [DefaultLevel].
// [Config] adjusts it:
//
//	log.Config(log.WithLevel(log.ParseLevel("trace")))
//
// Context-unaware functions pass the context returned by
// [DefaultContextProvider], [context.TODO] unless replaced.
//
// # Output
//
// [FormatText] and [FormatJSON] select the slog text and JSON handlers.
// [WithPretty] replaces them with colorized handlers meant for terminals.
// Timestamps use [WithTimeLayout]; a blank layout omits them.
package log
