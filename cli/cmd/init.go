package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/lang"
	"github.com/ardnew/lis/log"
	"github.com/ardnew/lis/profile"
)

// Init generates a configuration file from the current flag values.
//
// The file is a Lisp program of (define <flag> <value>) forms that is
// evaluated at startup to supply flag defaults.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoContext.With(slog.String("command", "init"))
	}

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	prog := i.buildProgram(ctx, ktx)

	err = prog.Format(ctx, file)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("definitions", len(prog)),
	)

	return nil
}

// buildProgram constructs one define form per representable flag value.
func (i *Init) buildProgram(ctx context.Context, ktx *kong.Context) lang.Program {
	var prog lang.Program

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			log.DebugContext(
				ctx,
				"flag value not representable",
				slog.String("flag", flag.Name),
			)

			continue
		}

		prog = append(prog, lang.Form(
			lang.Symbol("define"),
			lang.Symbol(flag.Name),
			val,
		))
	}

	return prog
}

// flagValue returns the expression that evaluates to v. Strings become quoted
// symbols and so must read back as a single token.
func flagValue(v any) (lang.Expr, bool) {
	switch v := v.(type) {
	case bool:
		return lang.Bool(v), true

	case int:
		return lang.Number(float64(v)), true

	case int64:
		return lang.Number(float64(v)), true

	case uint:
		return lang.Number(float64(v)), true

	case float64:
		return lang.Number(v), true

	case string:
		sym, ok := symbolOf(v)
		if !ok {
			return lang.Unit, false
		}

		return quote(sym), true

	case []string:
		if len(v) == 0 {
			return lang.Unit, false
		}

		elems := make([]lang.Expr, len(v))

		for i, s := range v {
			sym, ok := symbolOf(s)
			if !ok {
				return lang.Unit, false
			}

			elems[i] = sym
		}

		return quote(lang.Form(elems...)), true

	case fmt.Stringer:
		return flagValue(v.String())

	default:
		return lang.Unit, false
	}
}

func symbolOf(s string) (lang.Expr, bool) {
	toks := lang.Tokenize(s)
	if len(toks) != 1 || toks[0] != s {
		return lang.Unit, false
	}

	return lang.Symbol(s), true
}

func quote(x lang.Expr) lang.Expr {
	return lang.Form(lang.Symbol("quote"), x)
}
