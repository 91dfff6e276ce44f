package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Env is a lexical scope: a mapping from symbol to value with an optional
// enclosing scope.
//
// Environments form a DAG once closures capture them. A child never modifies
// its ancestors; [Env.Define] only writes the receiving level.
type Env struct {
	vars   map[string]Expr
	parent *Env
}

// NewEnv returns an empty environment enclosed by parent, which may be nil.
func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]Expr),
		parent: parent,
	}
}

// Parent returns the enclosing environment, or nil at the root.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name to value at this level, replacing any previous binding.
func (e *Env) Define(name string, value Expr) {
	e.vars[name] = value
}

// Lookup returns the value bound to name in the innermost scope that defines
// it.
func (e *Env) Lookup(name string) (Expr, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}

	return Unit, ErrUndefinedSymbol.With(slog.String("symbol", name))
}

// Local returns the value bound to name at this level only.
func (e *Env) Local(name string) (Expr, bool) {
	v, ok := e.vars[name]

	return v, ok
}

// Names returns an iterator over every name visible from e, innermost scope
// first. Shadowed names are reported once.
func (e *Env) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})

		for env := e; env != nil; env = env.parent {
			for _, name := range slices.Sorted(maps.Keys(env.vars)) {
				if _, ok := seen[name]; ok {
					continue
				}

				seen[name] = struct{}{}

				if !yield(name) {
					return
				}
			}
		}
	}
}

// bind returns a child of e binding each parameter symbol to the argument at
// the same position.
func (e *Env) bind(params, args []Expr) (*Env, error) {
	if len(params) != len(args) {
		return nil, ErrArityMismatch.With(
			slog.Int("expected", len(params)),
			slog.Int("got", len(args)),
		)
	}

	child := &Env{
		vars:   make(map[string]Expr, len(params)),
		parent: e,
	}

	for i, p := range params {
		name, err := p.Symbol()
		if err != nil {
			return nil, err
		}

		child.vars[name] = args[i]
	}

	return child, nil
}
