package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/lang"
	"github.com/ardnew/lis/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in Lisp.
//
// The file is evaluated as a program in a fresh interpreter whose
// definitions live in their own scope above the standard environment. Each
// top-level define whose name matches a flag supplies that flag's value:
//
//	(define log-level (quote debug))
//	(define log-pretty #f)
//	(define max-depth 5000)
//	(define source (quote (prelude.lisp)))
//
// Flag names may also be written with underscores (log_level). Values are
// converted as follows:
//   - numbers are formatted without exponent
//   - #t and #f become true and false
//   - other symbols are their text
//   - lists are joined with commas
//
// A configuration that fails to parse or evaluate is logged and ignored, so
// a broken file never prevents the command line from working. Command-line
// flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		in := lang.New(
			lang.WithEnv(lang.NewEnv(lang.StandardEnvironment())),
			lang.WithLogger(log.With(slog.String("source", "config"))),
		)

		if err := in.Load(ctx, r); err != nil {
			log.WarnContext(ctx, "configuration ignored", slog.Any("error", err))

			return config{}, nil
		}

		return config{env: in.Env()}, nil
	}
}

// config implements [kong.Resolver] over the bindings of an evaluated
// configuration program.
type config struct {
	env *lang.Env
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if c.env == nil {
		return nil, nil
	}

	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if x, ok := c.env.Local(name); ok {
			if v, ok := configValue(x); ok {
				return v, nil
			}
		}
	}

	return nil, nil
}

// configValue converts a configured value to the text kong decodes flag
// values from.
func configValue(x lang.Expr) (any, bool) {
	switch x.Kind() {
	case lang.KindNumber:
		f, _ := x.Number()

		return strconv.FormatFloat(f, 'f', -1, 64), true

	case lang.KindSymbol:
		switch s, _ := x.Symbol(); s {
		case "#t":
			return "true", true
		case "#f":
			return "false", true
		default:
			return s, true
		}

	case lang.KindList, lang.KindForm:
		elems, _ := x.Elems()
		parts := make([]string, 0, len(elems))

		for _, e := range elems {
			v, ok := configValue(e)
			if !ok {
				return nil, false
			}

			parts = append(parts, v.(string))
		}

		return strings.Join(parts, ","), true

	default:
		return nil, false
	}
}
