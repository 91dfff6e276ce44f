package lang

import (
	"log/slog"
)

// Kind indicates which variant of [Expr] a value holds.
type Kind int

const (
	// KindUnit is the "no value" result of a definition.
	KindUnit Kind = iota

	// KindNumber represents a double-precision number.
	KindNumber

	// KindSymbol represents a symbol (identifier or literal atom).
	KindSymbol

	// KindList represents a data list. The empty list is nil.
	KindList

	// KindForm represents an unevaluated parenthesized form.
	KindForm

	// KindPrimitive represents a built-in function.
	KindPrimitive

	// KindClosure represents a lambda paired with its defining environment.
	KindClosure
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"

	case KindNumber:
		return "Number"

	case KindSymbol:
		return "Symbol"

	case KindList:
		return "List"

	case KindForm:
		return "Form"

	case KindPrimitive:
		return "Primitive"

	case KindClosure:
		return "Closure"

	default:
		return "Unknown"
	}
}

// Primitive is the signature of a built-in function. It receives the
// already-evaluated arguments.
type Primitive func(args []Expr) (Expr, error)

// Expr is both the syntax tree node and the runtime value of the language.
//
// The zero value is Unit. Sequence payloads are never modified after an Expr
// is constructed, so values may be copied and shared freely.
type Expr struct {
	kind  Kind
	num   float64
	sym   string
	elems []Expr
	fn    Primitive
	env   *Env // captured environment (KindClosure only)
}

// Unit is the value returned by side-effecting forms.
var Unit = Expr{}

// Canonical boolean symbols.
var (
	True  = Symbol("#t")
	False = Symbol("#f")
)

// Number returns a number expression.
func Number(f float64) Expr { return Expr{kind: KindNumber, num: f} }

// Symbol returns a symbol expression.
func Symbol(s string) Expr { return Expr{kind: KindSymbol, sym: s} }

// List returns a data list holding elems.
func List(elems ...Expr) Expr { return Expr{kind: KindList, elems: elems} }

// Form returns an unevaluated form holding elems.
func Form(elems ...Expr) Expr { return Expr{kind: KindForm, elems: elems} }

// Builtin returns a primitive expression wrapping fn.
func Builtin(fn Primitive) Expr { return Expr{kind: KindPrimitive, fn: fn} }

// Bool returns the canonical truthy or falsy symbol.
func Bool(b bool) Expr {
	if b {
		return True
	}

	return False
}

// Kind returns the variant held by x.
func (x Expr) Kind() Kind { return x.kind }

// IsSeq reports whether x is a List or a Form.
func (x Expr) IsSeq() bool { return x.kind == KindList || x.kind == KindForm }

// IsSymbol reports whether x is the symbol s.
func (x Expr) IsSymbol(s string) bool { return x.kind == KindSymbol && x.sym == s }

// Number returns the numeric payload of x.
func (x Expr) Number() (float64, error) {
	if x.kind != KindNumber {
		return 0, x.mismatch(KindNumber)
	}

	return x.num, nil
}

// Symbol returns the text of a symbol.
func (x Expr) Symbol() (string, error) {
	if x.kind != KindSymbol {
		return "", x.mismatch(KindSymbol)
	}

	return x.sym, nil
}

// Elems returns the elements of a List, Form or Closure. The returned slice
// must not be modified.
func (x Expr) Elems() ([]Expr, error) {
	switch x.kind {
	case KindList, KindForm, KindClosure:
		return x.elems, nil

	default:
		return nil, x.mismatch(KindList)
	}
}

// Len returns the number of elements of a sequence, or 0 for other kinds.
func (x Expr) Len() int {
	if !x.IsSeq() {
		return 0
	}

	return len(x.elems)
}

// Primitive returns the function of a built-in.
func (x Expr) Primitive() (Primitive, error) {
	if x.kind != KindPrimitive {
		return nil, x.mismatch(KindPrimitive)
	}

	return x.fn, nil
}

// Env returns the environment captured by a closure, or nil.
func (x Expr) Env() *Env { return x.env }

// retag returns a copy of the sequence x with a different kind. The backing
// array is shared, which is safe because sequences are never mutated.
func (x Expr) retag(k Kind) Expr {
	x.kind = k

	return x
}

// String returns the canonical text rendering of x.
func (x Expr) String() string { return Render(x) }

// LogValue implements slog.LogValuer.
func (x Expr) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", x.kind.String()),
		slog.String("value", Render(x)),
	)
}

func (x Expr) mismatch(want Kind) *Error {
	return ErrTypeMismatch.With(
		slog.String("want", want.String()),
		slog.String("got", x.kind.String()),
		slog.String("value", Render(x)),
	)
}
