package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/lis/lang"
)

// Prompt is printed before each line read by [RunPlain].
const Prompt = "lis> "

// quitCommand ends a session when entered on its own line.
const quitCommand = "quit"

// Interactive reports whether r is a terminal, in which case the full
// screen editor can be used.
func Interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RunPlain runs a line-oriented session: it prints [Prompt], reads one line,
// evaluates its first expression and prints the rendering or the error
// message. It returns nil when the line "quit" is read or r is exhausted.
func RunPlain(ctx context.Context, in *lang.Interpreter, r io.Reader, w io.Writer) error {
	if in == nil {
		return ErrNoSession
	}

	logger := in.Logger()
	scanner := bufio.NewScanner(r)

	for {
		if _, err := io.WriteString(w, Prompt); err != nil {
			return err
		}

		if !scanner.Scan() {
			// Terminate the prompt line left open by EOF.
			_, _ = io.WriteString(w, "\n")

			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case quitCommand:
			return nil
		}

		out, err := in.EvalString(ctx, line)
		if err != nil {
			logger.TraceContext(ctx, "repl eval", slog.String("input", line), slog.Any("error", err))
			out = err.Error()
		}

		if out == "" {
			continue
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
}
