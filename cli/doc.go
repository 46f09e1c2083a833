// Package cli contains the command line interface for dumbo.
//
// # Usage
//
//	dumbo [flags] [render] [source ...] [-d data ...] [-s name=expr ...]
//	dumbo fmt {native,json,yaml,ast} [source]
//	dumbo repl [-d data ...]
//	dumbo init [--force]
//
// render is the default command, so "dumbo page.dumbo -d vars.yaml" renders
// page.dumbo with the bindings of vars.yaml.
//
// # Configuration
//
// Flag defaults are read from a configuration file in the data language,
// $XDG_CONFIG_HOME/dumbo/config, and from config.json beside it. Keys are
// flag names with underscores in place of hyphens:
//
//	{{
//	  log_level := 'debug';
//	  log_pretty := true;
//	}}
//
// "dumbo init" writes the file from the current flag values. Command-line
// flags override configured values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout, a time package name such as
//     RFC3339 or kitchen, a custom layout, or none
//   - --[no-]log-caller: include the caller's source location
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine, heap,
//     mem, mutex, thread, trace)
//   - --pprof-dir: output directory (default $XDG_CACHE_HOME/dumbo/pprof)
//
// # Examples
//
//	# Debug logging while rendering from stdin
//	echo 'Hi {{ print name }}' | dumbo --log-level=debug -s name="'you'"
//
//	# CPU profile of a render
//	dumbo --pprof-mode=cpu big.dumbo -d big.yaml -o out.txt
package cli
