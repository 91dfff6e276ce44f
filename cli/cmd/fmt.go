package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lis/lang"
)

// Fmt parses a program and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical Lisp (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// parseSource reads and parses every form of the named source.
func parseSource(ctx context.Context, name, format string) (lang.Program, error) {
	r, closeFn, err := openSource(ctx, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	prog, err := lang.ParseReader(ctx, r)
	if err != nil {
		return nil, ErrParse.
			With(slog.String("format", format)).
			Wrap(err)
	}

	return prog, nil
}

// Native formats input as canonical Lisp, one top-level form per line.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	if err := prog.Format(ctx, streamsFrom(ctx).out); err != nil {
		return ErrFormat.With(slog.String("format", "native")).Wrap(err)
	}

	return nil
}

// JSON formats input as a JSON array of top-level forms.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, streamsFrom(ctx).out, j.Indent); err != nil {
		return ErrFormat.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML formats input as a YAML sequence of top-level forms.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, streamsFrom(ctx).out, y.Indent); err != nil {
		return ErrFormat.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// AST prints each form as an indented tree of kinds.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	if err := prog.Print(ctx, streamsFrom(ctx).out); err != nil {
		return ErrFormat.With(slog.String("format", "ast")).Wrap(err)
	}

	return nil
}
