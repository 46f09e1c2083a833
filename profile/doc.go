// Package profile wraps [github.com/pkg/profile] so the dumbo command can
// write pprof profiles of a render.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers never need their own build constraints.
//
// # Usage
//
//	p := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//		profile.WithQuiet(true))
//	defer p.Start().Stop()
//
// Profiles are written to the configured directory with names matching the
// mode (cpu.pprof, mem.pprof, ...). The command line exposes the same
// settings as --pprof-mode and --pprof-dir, and writes to
// $XDG_CACHE_HOME/dumbo/pprof by default.
//
// Analyze the result with the go tool:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// A pprof build also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
