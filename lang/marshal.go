package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Expr.
func (x Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.ToNative())
}

// MarshalJSON implements json.Marshaler for Program.
func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// ToNative converts the program to a slice of native Go values.
func (p Program) ToNative() []any {
	result := make([]any, len(p))
	for i, x := range p {
		result[i] = x.ToNative()
	}

	return result
}

// ToNative converts x to its native Go type.
//
// Numbers become float64, symbols become string, and sequences become []any.
// Values that have no data representation (Unit, primitives, closures)
// become nil.
func (x Expr) ToNative() any {
	switch x.kind {
	case KindNumber:
		return x.num

	case KindSymbol:
		return x.sym

	case KindList, KindForm:
		elems := make([]any, len(x.elems))
		for i, e := range x.elems {
			elems[i] = e.ToNative()
		}

		return elems

	default:
		return nil
	}
}
