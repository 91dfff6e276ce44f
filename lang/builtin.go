package lang

import (
	"log/slog"
	"math"
)

// StandardEnvironment returns a new root environment populated with the
// built-in procedures and constants.
func StandardEnvironment() *Env {
	env := NewEnv(nil)

	for name, fn := range builtins {
		env.Define(name, Builtin(fn))
	}

	env.Define("nil", List())
	env.Define("#t", True)
	env.Define("#f", False)

	return env
}

var builtins = map[string]Primitive{
	"+": fold("+", func(a, b float64) float64 { return a + b }),
	"-": fold("-", func(a, b float64) float64 { return a - b }),
	"*": fold("*", func(a, b float64) float64 { return a * b }),
	"/": fold("/", func(a, b float64) float64 { return a / b }),

	"=":  compare("=", func(a, b float64) bool { return a == b }),
	"<":  compare("<", func(a, b float64) bool { return a < b }),
	">":  compare(">", func(a, b float64) bool { return a > b }),
	"<=": compare("<=", func(a, b float64) bool { return a <= b }),
	">=": compare(">=", func(a, b float64) bool { return a >= b }),

	"abs":    builtinAbs,
	"not":    builtinNot,
	"list":   builtinList,
	"car":    builtinCar,
	"cdr":    builtinCdr,
	"cons":   builtinCons,
	"length": builtinLength,
	"list?":  builtinIsList,
	"null?":  builtinIsNull,
	"append": builtinAppend,
	"begin":  builtinBegin,
}

// fold returns a left fold of op over one or more numbers.
func fold(name string, op func(a, b float64) float64) Primitive {
	return func(args []Expr) (Expr, error) {
		if len(args) == 0 {
			return Unit, ErrArityMismatch.With(
				slog.String("procedure", name),
				slog.String("expected", "at least 1"),
				slog.Int("got", 0),
			)
		}

		acc, err := args[0].Number()
		if err != nil {
			return Unit, WrapError(err).With(slog.String("procedure", name))
		}

		for _, arg := range args[1:] {
			f, err := arg.Number()
			if err != nil {
				return Unit, WrapError(err).With(slog.String("procedure", name))
			}

			acc = op(acc, f)
		}

		return Number(acc), nil
	}
}

// compare returns a binary numeric predicate.
func compare(name string, op func(a, b float64) bool) Primitive {
	return func(args []Expr) (Expr, error) {
		a, b, err := numbers2(name, args)
		if err != nil {
			return Unit, err
		}

		return Bool(op(a, b)), nil
	}
}

func numbers2(name string, args []Expr) (float64, float64, error) {
	if err := want(name, args, 2); err != nil {
		return 0, 0, err
	}

	a, err := args[0].Number()
	if err != nil {
		return 0, 0, WrapError(err).With(slog.String("procedure", name))
	}

	b, err := args[1].Number()
	if err != nil {
		return 0, 0, WrapError(err).With(slog.String("procedure", name))
	}

	return a, b, nil
}

// want fails unless exactly n arguments were passed to the named procedure.
func want(name string, args []Expr, n int) error {
	if len(args) != n {
		return ErrArityMismatch.With(
			slog.String("procedure", name),
			slog.Int("expected", n),
			slog.Int("got", len(args)),
		)
	}

	return nil
}

// seq returns the elements of the sequence argument at index i.
func seq(name string, args []Expr, i int) ([]Expr, error) {
	if !args[i].IsSeq() {
		return nil, args[i].mismatch(KindList).With(slog.String("procedure", name))
	}

	return args[i].elems, nil
}

func builtinAbs(args []Expr) (Expr, error) {
	if err := want("abs", args, 1); err != nil {
		return Unit, err
	}

	f, err := args[0].Number()
	if err != nil {
		return Unit, err
	}

	return Number(math.Abs(f)), nil
}

func builtinNot(args []Expr) (Expr, error) {
	if err := want("not", args, 1); err != nil {
		return Unit, err
	}

	return Bool(args[0].IsSymbol("#f")), nil
}

func builtinList(args []Expr) (Expr, error) {
	return Expr{elems: args}.retag(KindList), nil
}

func builtinCar(args []Expr) (Expr, error) {
	if err := want("car", args, 1); err != nil {
		return Unit, err
	}

	elems, err := seq("car", args, 0)
	if err != nil {
		return Unit, err
	}

	if len(elems) == 0 {
		return Unit, ErrEmptyListAccess.With(slog.String("procedure", "car"))
	}

	return elems[0], nil
}

func builtinCdr(args []Expr) (Expr, error) {
	if err := want("cdr", args, 1); err != nil {
		return Unit, err
	}

	elems, err := seq("cdr", args, 0)
	if err != nil {
		return Unit, err
	}

	if len(elems) == 0 {
		return Unit, ErrEmptyListAccess.With(slog.String("procedure", "cdr"))
	}

	rest := make([]Expr, len(elems)-1)
	copy(rest, elems[1:])

	return Expr{kind: args[0].kind, elems: rest}, nil
}

func builtinCons(args []Expr) (Expr, error) {
	if err := want("cons", args, 2); err != nil {
		return Unit, err
	}

	tail, err := seq("cons", args, 1)
	if err != nil {
		return Unit, err
	}

	elems := make([]Expr, 0, len(tail)+1)
	elems = append(elems, args[0])
	elems = append(elems, tail...)

	return Expr{kind: args[1].kind, elems: elems}, nil
}

func builtinLength(args []Expr) (Expr, error) {
	if err := want("length", args, 1); err != nil {
		return Unit, err
	}

	elems, err := seq("length", args, 0)
	if err != nil {
		return Unit, err
	}

	return Number(float64(len(elems))), nil
}

func builtinIsList(args []Expr) (Expr, error) {
	if err := want("list?", args, 1); err != nil {
		return Unit, err
	}

	return Bool(args[0].kind == KindList), nil
}

func builtinIsNull(args []Expr) (Expr, error) {
	if err := want("null?", args, 1); err != nil {
		return Unit, err
	}

	elems, err := seq("null?", args, 0)
	if err != nil {
		return Unit, err
	}

	return Bool(len(elems) == 0), nil
}

func builtinAppend(args []Expr) (Expr, error) {
	if err := want("append", args, 2); err != nil {
		return Unit, err
	}

	head, err := seq("append", args, 0)
	if err != nil {
		return Unit, err
	}

	tail, err := seq("append", args, 1)
	if err != nil {
		return Unit, err
	}

	elems := make([]Expr, 0, len(head)+len(tail))
	elems = append(elems, head...)
	elems = append(elems, tail...)

	return Expr{kind: args[0].kind, elems: elems}, nil
}

func builtinBegin(args []Expr) (Expr, error) {
	if len(args) == 0 {
		return Unit, ErrArityMismatch.With(
			slog.String("procedure", "begin"),
			slog.String("expected", "at least 1"),
			slog.Int("got", 0),
		)
	}

	return args[len(args)-1], nil
}
