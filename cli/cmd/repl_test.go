package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/lis/cli/cmd/repl"
	"github.com/ardnew/lis/lang"
)

func TestRepl_PlainWithSources(t *testing.T) {
	dir := t.TempDir()
	prelude := writeSource(t, dir, "prelude.lisp", "(define greeting (quote hello))")

	var out bytes.Buffer

	ctx := WithStreams(t.Context(), strings.NewReader("greeting\nquit\n"), &out)
	ctx = WithSourceFiles(ctx, []string{prelude})

	if err := (&Repl{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := repl.Prompt + "hello\n" + repl.Prompt; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRepl_BrokenSource(t *testing.T) {
	dir := t.TempDir()
	broken := writeSource(t, dir, "broken.lisp", "(undefined-procedure 1)")

	ctx := WithStreams(t.Context(), strings.NewReader(""), &bytes.Buffer{})
	ctx = WithSourceFiles(ctx, []string{broken})

	err := (&Repl{Plain: true}).Run(ctx)
	if !errors.Is(err, ErrLoadSource) || !errors.Is(err, lang.ErrUndefinedSymbol) {
		t.Fatalf("expected ErrLoadSource wrapping ErrUndefinedSymbol, got %v", err)
	}
}
