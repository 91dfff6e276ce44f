package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lis/lang"
)

// ctrlCommands are the completion candidates in control mode.
var ctrlCommands = func() []string {
	names := make([]string, len(controls))
	for i, c := range controls {
		names[i] = c.name
	}

	return names
}()

// isWordBoundary reports whether r separates symbols. Everything the reader
// does not split on belongs to a symbol, so hyphens, '?' and operators such
// as '<=' are completed as a whole.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '(', ')':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// symbolCandidates returns every name visible in env plus the special forms,
// sorted and without duplicates.
func symbolCandidates(env *lang.Env) []string {
	names := lang.SpecialForms()

	if env != nil {
		for name := range env.Names() {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. An empty word has no matches so the hint line stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = symbolCandidates(m.session.Env())
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

// previewLimit bounds the width of a binding preview in the list command.
const previewLimit = 40

// formatPreview returns a short description of a bound value.
func formatPreview(x lang.Expr) string {
	var s string

	switch x.Kind() {
	case lang.KindPrimitive:
		return "<builtin>"

	case lang.KindClosure:
		elems, _ := x.Elems()
		s = "(lambda " + lang.Render(elems[1]) + " ...)"

	default:
		s = lang.Render(x)
	}

	if len(s) > previewLimit {
		return s[:previewLimit-3] + "..."
	}

	return s
}
