package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lis/cli/cmd/repl"
	"github.com/ardnew/lis/log"
)

// Repl runs an interactive session.
type Repl struct {
	Plain bool `help:"Use a plain line prompt even on a terminal"`
}

// Run executes the repl command. The global source files are loaded into
// the session before the first prompt.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in := newInterpreter(ctx, slog.String("command", "repl"))

	if src := sourceFilesFrom(ctx); src != nil {
		err := in.Load(ctx, src)
		src.Close()

		if err != nil {
			return ErrLoadSource.Wrap(err)
		}
	}

	s := streamsFrom(ctx)

	if r.Plain || !repl.Interactive(s.in) {
		log.DebugContext(ctx, "repl plain", slog.Bool("forced", r.Plain))

		return repl.RunPlain(ctx, in, s.in, s.out)
	}

	cacheDir, _ := kongVar(ctx, CacheIdentifier)

	return repl.Run(ctx, in, cacheDir)
}
