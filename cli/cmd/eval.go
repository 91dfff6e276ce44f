package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/lis/lang"
)

// Eval evaluates expressions in a single interpreter session.
type Eval struct {
	Exprs []string `arg:"" help:"Expressions to evaluate (default: every form read from --source or stdin)" name:"expr" optional:""`
}

// Run executes the eval command.
//
// With expression arguments, the global source files are loaded first so
// their definitions are visible, then each argument is evaluated. Without
// arguments, every form of the source files (or stdin) is evaluated. The
// rendering of each non-empty value is printed on its own line.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in := newInterpreter(ctx, slog.String("command", "eval"))

	prog, err := e.program(ctx, in)
	if err != nil {
		return err
	}

	out := streamsFrom(ctx).out

	for i, x := range prog {
		v, err := in.Eval(ctx, x)
		if err != nil {
			return ErrEvaluate.
				With(slog.Int("form", i), slog.String("expr", lang.Render(x))).
				Wrap(err)
		}

		if s := lang.Render(v); s != "" {
			if _, err := fmt.Fprintln(out, s); err != nil {
				return err
			}
		}
	}

	return nil
}

// program returns the forms to evaluate and prepares the session for them.
func (e *Eval) program(ctx context.Context, in *lang.Interpreter) (lang.Program, error) {
	src := sourceFilesFrom(ctx)
	if src != nil {
		defer src.Close()
	}

	if len(e.Exprs) == 0 {
		var r io.Reader = streamsFrom(ctx).in
		if src != nil {
			r = src
		}

		prog, err := lang.ParseReader(ctx, r, lang.WithLogger(in.Logger()))
		if err != nil {
			return nil, ErrParse.Wrap(err)
		}

		return prog, nil
	}

	if src != nil {
		if err := in.Load(ctx, src); err != nil {
			return nil, ErrLoadSource.Wrap(err)
		}
	}

	prog := make(lang.Program, 0, len(e.Exprs))

	for i, text := range e.Exprs {
		x, err := lang.Parse(text)
		if err != nil {
			return nil, ErrParse.With(slog.Int("arg", i)).Wrap(err)
		}

		prog = append(prog, x)
	}

	return prog, nil
}
