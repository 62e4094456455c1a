// Package log provides a leveled structured logging interface based on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("collection loaded", slog.Int("elements", n))
//
// # Configuration
//
// Loggers are configured with functional options when created:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [Debug], ...) write through a default
// logger on stderr that [Config] reconfigures. Functions and methods without
// a context argument use [DefaultContextProvider].
//
// # Output
//
// [FormatText] output is colorized with lipgloss when [WithPretty] is set and
// the destination supports color. [FormatJSON] output is always plain.
package log
