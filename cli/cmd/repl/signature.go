package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/lis/lang"
)

// builtinParams names the parameters of the standard procedures. A leading
// "..." marks a parameter that absorbs the remaining arguments.
var builtinParams = map[string][]string{
	"+":      {"x", "...xs"},
	"-":      {"x", "...xs"},
	"*":      {"x", "...xs"},
	"/":      {"x", "...xs"},
	">":      {"x", "y"},
	"<":      {"x", "y"},
	">=":     {"x", "y"},
	"<=":     {"x", "y"},
	"=":      {"x", "y"},
	"abs":    {"x"},
	"not":    {"x"},
	"list":   {"...xs"},
	"car":    {"list"},
	"cdr":    {"list"},
	"cons":   {"x", "list"},
	"length": {"list"},
	"list?":  {"x"},
	"null?":  {"x"},
	"append": {"list", "list"},
	"begin":  {"...xs"},
	"quote":  {"expr"},
	"if":     {"test", "conseq", "alt"},
	"define": {"symbol", "expr"},
	"lambda": {"params", "body"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the application enclosing the cursor.
type functionCall struct {
	name     string // operator symbol
	argIndex int    // index of the operand being typed (0-based)
	inCall   bool   // true once the operator has been completed
}

// detectFunctionCall finds the innermost open form containing the cursor.
// The call is recognized once its operator is a symbol followed by
// whitespace; argIndex counts the operands completed before the cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	body := input[open+1 : cursor]
	items := topLevelItems(body)

	if len(items) == 0 || strings.HasPrefix(items[0], "(") {
		return functionCall{}
	}

	trailing := strings.HasSuffix(body, " ") || strings.HasSuffix(body, "\t") ||
		strings.HasSuffix(body, ")")

	argIndex := len(items) - 2
	if trailing {
		argIndex = len(items) - 1
	}

	if argIndex < 0 {
		return functionCall{}
	}

	return functionCall{name: items[0], argIndex: argIndex, inCall: true}
}

// topLevelItems splits s into its depth-0 tokens and parenthesized forms.
// An unterminated form extends to the end of s.
func topLevelItems(s string) []string {
	var (
		items []string
		depth int
		start = -1
	)

	for i, r := range s {
		switch {
		case r == '(':
			if depth == 0 && start < 0 {
				start = i
			}

			depth++

		case r == ')':
			depth--

			if depth == 0 && start >= 0 {
				items = append(items, s[start:i+1])
				start = -1
			}

		case isWordBoundary(r):
			if depth == 0 && start >= 0 {
				items = append(items, s[start:i])
				start = -1
			}

		default:
			if start < 0 {
				start = i
			}
		}
	}

	if start >= 0 {
		items = append(items, s[start:])
	}

	return items
}

// getSignature returns the parameter names of the procedure or special form
// bound to name. Closures report their declared parameters; a rebound
// standard name reports the new binding.
func getSignature(env *lang.Env, name string) (params []string, ok bool) {
	if env != nil {
		if x, err := env.Lookup(name); err == nil {
			switch x.Kind() {
			case lang.KindClosure:
				return closureParams(x), true

			case lang.KindPrimitive:
				params, ok := builtinParams[name]

				return params, ok

			default:
				return nil, false
			}
		}
	}

	params, ok = builtinParams[name]

	return params, ok
}

// closureParams returns the rendered parameter names of a closure.
func closureParams(x lang.Expr) []string {
	elems, err := x.Elems()
	if err != nil || len(elems) < 2 {
		return nil
	}

	ps, err := elems[1].Elems()
	if err != nil {
		return nil
	}

	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = lang.Render(p)
	}

	return names
}

// renderSignatureHint renders "(name p1 p2 ...)" with the parameter at
// currentArgIdx highlighted.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := strings.HasPrefix(param, "...")
		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
