package lang

import (
	"strconv"
	"strings"
)

// Render returns the canonical text of x.
//
// Sequences render as "(" followed by " "+element for each element and a
// closing " )", so the empty list is "( )". Values without a textual form
// (Unit, primitives and closures) render as the empty string.
func Render(x Expr) string {
	var sb strings.Builder

	render(&sb, x)

	return sb.String()
}

func render(sb *strings.Builder, x Expr) {
	switch x.kind {
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(x.num, 'g', -1, 64))

	case KindSymbol:
		sb.WriteString(x.sym)

	case KindList, KindForm:
		sb.WriteByte('(')

		for _, e := range x.elems {
			sb.WriteByte(' ')
			render(sb, e)
		}

		sb.WriteString(" )")
	}
}
