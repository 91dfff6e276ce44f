// Package log is the structured logger shared by the interpreter and its
// command line. It wraps [log/slog] with a trace level below debug, named
// time layouts, and a colorized handler for terminals.
//
// A [Logger] is built once from functional options and then only derived
// from, never mutated:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	session := logger.With(slog.String("command", "repl"))
//	session.TraceContext(ctx, "define", slog.String("symbol", "fact"))
//
// The zero Logger discards everything, so packages such as lang accept a
// Logger without requiring callers to configure one.
//
// # Levels and formats
//
// [ParseLevel] and [ParseFormat] accept the names produced by [Levels] and
// [Formats]. Trace records are labelled TRACE in every format.
//
// With [WithPretty] (the default) text records print unquoted, colorized
// key=value pairs and JSON records print one field per line. Disable it for
// machine-readable output.
//
// # Default logger
//
// The package-level functions ([Info], [WarnContext], [With], ...) log
// through a default Logger on standard error. [Config] derives a new default
// from the current one, which is how the command line applies its --log-*
// flags.
package log
