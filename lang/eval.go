package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/lis/log"
)

// DefaultMaxDepth is the default limit on nested evaluations.
// A value of 0 disables the limit.
var DefaultMaxDepth = 100000

// Names of the special forms.
const (
	formQuote  = "quote"
	formIf     = "if"
	formDefine = "define"
	formLambda = "lambda"
)

// SpecialForms returns the names handled by the evaluator itself rather than
// by function application.
func SpecialForms() []string {
	return []string{formDefine, formIf, formLambda, formQuote}
}

// evaluator carries per-evaluation state.
type evaluator struct {
	ctx      context.Context
	logger   log.Logger
	maxDepth int
	depth    int
}

// Eval evaluates x in env using the default depth limit and no logging.
func Eval(x Expr, env *Env) (Expr, error) {
	ev := evaluator{
		ctx:      context.Background(),
		maxDepth: DefaultMaxDepth,
	}

	return ev.eval(x, env)
}

func (ev *evaluator) eval(x Expr, env *Env) (Expr, error) {
	switch x.kind {
	case KindSymbol:
		return env.Lookup(x.sym)

	case KindForm:
		if len(x.elems) == 0 {
			return List(), nil
		}

	default:
		// Numbers, Lists and already-evaluated values stand for themselves.
		return x, nil
	}

	ev.depth++
	defer func() { ev.depth-- }()

	if ev.maxDepth > 0 && ev.depth > ev.maxDepth {
		return Unit, ErrMaxDepthExceeded.With(slog.Int("max_depth", ev.maxDepth))
	}

	head, args := x.elems[0], x.elems[1:]

	if head.kind == KindSymbol {
		switch head.sym {
		case formQuote:
			if err := arity(formQuote, args, 1); err != nil {
				return Unit, err
			}

			return args[0], nil

		case formIf:
			return ev.evalIf(args, env)

		case formDefine:
			return ev.evalDefine(args, env)

		case formLambda:
			if err := arity(formLambda, args, 2); err != nil {
				return Unit, err
			}

			if !args[0].IsSeq() {
				return Unit, args[0].mismatch(KindList)
			}

			closure := x.retag(KindClosure)
			closure.env = env

			return closure, nil
		}
	}

	return ev.apply(head, args, env)
}

func (ev *evaluator) evalIf(args []Expr, env *Env) (Expr, error) {
	if err := arity(formIf, args, 3); err != nil {
		return Unit, err
	}

	test, err := ev.eval(args[0], env)
	if err != nil {
		return Unit, err
	}

	if test.IsSymbol("#t") {
		return ev.eval(args[1], env)
	}

	return ev.eval(args[2], env)
}

func (ev *evaluator) evalDefine(args []Expr, env *Env) (Expr, error) {
	if err := arity(formDefine, args, 2); err != nil {
		return Unit, err
	}

	name, err := args[0].Symbol()
	if err != nil {
		return Unit, err
	}

	value, err := ev.eval(args[1], env)
	if err != nil {
		return Unit, err
	}

	env.Define(name, value)

	ev.logger.TraceContext(
		ev.ctx,
		"define",
		slog.String("symbol", name),
		slog.String("kind", value.kind.String()),
	)

	return Unit, nil
}

// apply evaluates the operator and its operands, then calls the operator.
func (ev *evaluator) apply(head Expr, operands []Expr, env *Env) (Expr, error) {
	fn, err := ev.eval(head, env)
	if err != nil {
		return Unit, err
	}

	args := make([]Expr, len(operands))

	for i, op := range operands {
		if args[i], err = ev.eval(op, env); err != nil {
			return Unit, err
		}
	}

	switch fn.kind {
	case KindPrimitive:
		return fn.fn(args)

	case KindClosure:
		params, body := fn.elems[1].elems, fn.elems[2]

		local, err := fn.env.bind(params, args)
		if err != nil {
			return Unit, WrapError(err).With(slog.String("operator", Render(head)))
		}

		ev.logger.TraceContext(
			ev.ctx,
			"apply closure",
			slog.String("operator", Render(head)),
			slog.Int("args", len(args)),
			slog.Int("depth", ev.depth),
		)

		return ev.eval(body, local)

	default:
		return Unit, ErrTypeMismatch.With(
			slog.String("want", "procedure"),
			slog.String("got", fn.kind.String()),
			slog.String("operator", Render(head)),
		)
	}
}

// arity fails unless args holds exactly n operands for the named form.
func arity(name string, args []Expr, n int) error {
	if len(args) != n {
		return ErrArityMismatch.With(
			slog.String("form", name),
			slog.Int("expected", n),
			slog.Int("got", len(args)),
		)
	}

	return nil
}
