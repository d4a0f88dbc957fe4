// Package cli contains the command line interface for hbind.
//
// # Usage
//
// The default command renders a template against data files:
//
//	hbind -d people.yaml page.hbs
//	hbind render -d base.yaml -d override.json -o page.html page.hbs
//
// Other commands resolve a single path expression, or open an interactive
// session for exploring data:
//
//	hbind resolve -d people.yaml --scope users users.[0]/name
//	hbind repl -d people.yaml
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user's config directory.
// Top-level keys apply to every command, and a section named for a command
// overrides them for that command. Keys may use hyphens or underscores:
//
//	log_level: debug
//	render:
//	  no-cache: true
//	resolve:
//	  format: json
//	  indent: 4
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set the timestamp layout, or "none"
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// Logging flags are scanned before the rest of the command line is parsed,
// so messages from configuration loading honor them.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o hbind .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory under the user's cache directory)
package cli
