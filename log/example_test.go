package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/lis/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Info("session started", slog.String("mode", "repl"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Trace("apply closure", slog.Int("depth", 3))
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr).With(slog.String("source", "init.lis"))

	logger.Info("load")
	logger.Debug("define", slog.String("symbol", "fact"))
}

func Example_withContext() {
	logger := log.Make(os.Stderr, log.WithFormat(log.FormatText))

	logger.InfoContext(context.Background(), "eval", slog.String("expr", "( + 1 2 )"))
}

func Example_defaultLogger() {
	log.Config(log.WithLevel(log.LevelWarn))

	log.Warn("config file ignored", slog.String("reason", "not found"))
}
