package cmd

import "github.com/ardnew/lis/lang"

// Error is the error type returned by commands. It shares the interpreter's
// representation so that a command failure and its interpreter cause log
// through the same [slog.LogValuer] group.
type Error = lang.Error

var (
	ErrOpenSource  = lang.NewError("open source")
	ErrLoadSource  = lang.NewError("load source")
	ErrParse       = lang.NewError("parse")
	ErrEvaluate    = lang.NewError("evaluate")
	ErrFormat      = lang.NewError("format")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrNoContext   = lang.NewError("command context unavailable")
)
