package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Program is a sequence of top-level expressions read from one source.
type Program []Expr

// Tokenize splits source text into tokens. Parentheses are always tokens of
// their own; everything else is separated by whitespace.
func Tokenize(text string) []string {
	r := strings.NewReplacer("(", " ( ", ")", " ) ")

	return strings.Fields(r.Replace(text))
}

// Read consumes exactly one expression from the front of tokens.
//
// On success the consumed tokens are removed from *tokens. On failure the
// contents of *tokens are unspecified.
func Read(tokens *[]string) (Expr, error) {
	if len(*tokens) == 0 {
		return Unit, ErrUnexpectedEOF
	}

	tok := (*tokens)[0]
	*tokens = (*tokens)[1:]

	switch tok {
	case "(":
		var elems []Expr

		for {
			if len(*tokens) == 0 {
				return Unit, ErrUnexpectedEOF.With(
					slog.Int("open_elements", len(elems)),
				)
			}

			if (*tokens)[0] == ")" {
				*tokens = (*tokens)[1:]

				break
			}

			x, err := Read(tokens)
			if err != nil {
				return Unit, err
			}

			elems = append(elems, x)
		}

		if len(elems) == 0 {
			return List(), nil
		}

		return Form(elems...), nil

	case ")":
		return Unit, ErrUnexpectedCloseParen

	default:
		return atom(tok), nil
	}
}

// atom classifies a single token as a Number or a Symbol.
func atom(tok string) Expr {
	f, err := strconv.ParseFloat(tok, 64)
	if err == nil {
		return Number(f)
	}

	// Out-of-range literals are still numbers; ParseFloat saturates them.
	if errors.Is(err, strconv.ErrRange) {
		return Number(f)
	}

	return Symbol(tok)
}

// Parse reads the first expression in text. Tokens following it are ignored.
func Parse(text string) (Expr, error) {
	tokens := Tokenize(text)

	return Read(&tokens)
}

// ParseAll reads every expression in text.
func ParseAll(text string) (Program, error) {
	tokens := Tokenize(text)

	var prog Program

	for len(tokens) > 0 {
		x, err := Read(&tokens)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("form", len(prog)))
		}

		prog = append(prog, x)
	}

	return prog, nil
}
