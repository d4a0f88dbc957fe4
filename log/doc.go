// Package log provides a concurrency-safe structured logger based on
// [log/slog] with an additional [LevelTrace] below Debug.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template compiled", slog.Int("nodes", n))
//
// # Configuration
//
// Loggers are configured with functional options when created, or derived
// from an existing logger with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Time layouts may be any named layout of the [time] package, matched
// without regard to case or punctuation, a short alias such as "ms", or a
// custom layout. The layout "none" disables timestamps.
//
// # Pretty Output
//
// With [WithPretty] (the default), text and JSON records are styled with
// lipgloss. Styling is dropped when the output is not a terminal.
//
// # Zero Value
//
// The zero [Logger] discards all messages. Libraries accept a Logger
// through their options and log unconditionally.
//
// # Package Logger
//
// Package-level functions such as [Info] and [Trace] write to a default
// logger on stderr, reconfigured with [Config] or replaced with
// [SetDefault].
package log
