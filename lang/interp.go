package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/lis/log"
)

// Interpreter is an evaluation session owning one root environment.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	env      *Env
	logger   log.Logger
	maxDepth int
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithMaxDepth sets the nested evaluation limit. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

// WithEnv sets the root environment. A nil env is ignored.
func WithEnv(env *Env) Option {
	return func(in *Interpreter) {
		if env != nil {
			in.env = env
		}
	}
}

// New returns an interpreter whose root environment is a fresh
// [StandardEnvironment] unless [WithEnv] is given.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(in)
	}

	if in.env == nil {
		in.env = StandardEnvironment()
	}

	return in
}

// Env returns the root environment.
func (in *Interpreter) Env() *Env { return in.env }

// Logger returns the configured logger.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// Eval evaluates x in the root environment.
func (in *Interpreter) Eval(ctx context.Context, x Expr) (Expr, error) {
	ev := evaluator{
		ctx:      ctx,
		logger:   in.logger,
		maxDepth: in.maxDepth,
	}

	v, err := ev.eval(x, in.env)
	if err != nil {
		in.logger.TraceContext(
			ctx,
			"eval failed",
			slog.String("expr", Render(x)),
			slog.Any("error", err),
		)

		return Unit, err
	}

	return v, nil
}

// EvalString parses the first expression in text, evaluates it and returns
// its rendering.
func (in *Interpreter) EvalString(ctx context.Context, text string) (string, error) {
	x, err := Parse(text)
	if err != nil {
		return "", err
	}

	v, err := in.Eval(ctx, x)
	if err != nil {
		return "", err
	}

	return Render(v), nil
}

// EvalProgram evaluates each expression of prog in order and returns their
// values. Evaluation stops at the first error; the values computed before it
// are returned with the error.
func (in *Interpreter) EvalProgram(ctx context.Context, prog Program) ([]Expr, error) {
	values := make([]Expr, 0, len(prog))

	for i, x := range prog {
		v, err := in.Eval(ctx, x)
		if err != nil {
			return values, WrapError(err).With(slog.Int("form", i))
		}

		values = append(values, v)
	}

	return values, nil
}

// Load reads a program from r and evaluates it in the root environment.
func (in *Interpreter) Load(ctx context.Context, r io.Reader) error {
	prog, err := ParseReader(ctx, r, WithLogger(in.logger))
	if err != nil {
		return err
	}

	in.logger.DebugContext(ctx, "load", slog.Int("forms", len(prog)))

	_, err = in.EvalProgram(ctx, prog)

	return err
}
