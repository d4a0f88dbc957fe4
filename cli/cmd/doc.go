// Package cmd implements the hbind subcommands.
//
// Every command reads its data from zero or more files given with --data.
// YAML, JSON, and TOML are recognized by extension; "-" reads stdin in the
// format named by --data-format. Top-level maps of multiple files are
// merged in order, later files overriding earlier ones.
//
//   - [Render] compiles a template and renders it against the data.
//   - [Resolve] evaluates one path expression and prints the result.
//   - [Repl] does both interactively.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
