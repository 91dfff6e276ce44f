package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/lis/lang"
)

const fmtSource = "(define sq\n  (lambda (x) (* x x)))\n\n(sq   1.5)"

func TestFmt_Formats(t *testing.T) {
	tests := []struct {
		name  string
		run   func(context.Context) error
		exact bool
		want  []string
	}{
		{
			name:  "native",
			run:   (&Native{Source: "-"}).Run,
			exact: true,
			want:  []string{"( define sq ( lambda ( x ) ( * x x ) ) )\n( sq 1.5 )\n"},
		},
		{
			name:  "json compact",
			run:   (&JSON{Source: "-"}).Run,
			exact: true,
			want:  []string{`[["define","sq",["lambda",["x"],["*","x","x"]]],["sq",1.5]]` + "\n"},
		},
		{
			name: "json indented",
			run:  (&JSON{Source: "-", Indent: 2}).Run,
			want: []string{"[\n  [\n    \"define\",", "    1.5\n  ]\n]\n"},
		},
		{
			name: "yaml",
			run:  (&YAML{Source: "-", Indent: 2}).Run,
			want: []string{"define", "lambda", "1.5"},
		},
		{
			name: "ast",
			run:  (&AST{Source: "-"}).Run,
			want: []string{"Form: 3\n  Symbol: define\n  Symbol: sq\n", "Form: 2\n  Symbol: sq\n  Number: 1.5\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStreams(t.Context(), strings.NewReader(fmtSource), &out)

			if err := tt.run(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.exact {
				if out.String() != tt.want[0] {
					t.Errorf("expected:\n%s\ngot:\n%s", tt.want[0], out.String())
				}

				return
			}

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestFmt_NativeRoundTrip(t *testing.T) {
	var first, second bytes.Buffer

	ctx := WithStreams(t.Context(), strings.NewReader(fmtSource), &first)
	if err := (&Native{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	ctx = WithStreams(t.Context(), strings.NewReader(first.String()), &second)
	if err := (&Native{Source: "-"}).Run(ctx); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("formatting is not stable:\n%s\n%s", first.String(), second.String())
	}
}

func TestFmt_File(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "prog.lisp", "(+ 1\n 2)")

	var out bytes.Buffer

	ctx := WithStreams(t.Context(), strings.NewReader("unused"), &out)
	if err := (&Native{Source: file}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "( + 1 2 )\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestFmt_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		source  string
		input   string
		wantErr []error
	}{
		{
			name:    "unbalanced",
			source:  "-",
			input:   "(define x",
			wantErr: []error{ErrParse, lang.ErrUnexpectedEOF},
		},
		{
			name:    "stray close",
			source:  "-",
			input:   "x)",
			wantErr: []error{ErrParse, lang.ErrUnexpectedCloseParen},
		},
		{
			name:    "missing file",
			source:  filepath.Join(dir, "missing.lisp"),
			wantErr: []error{ErrOpenSource},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStreams(t.Context(), strings.NewReader(tt.input), &bytes.Buffer{})

			err := (&Native{Source: tt.source}).Run(ctx)
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("expected %v in chain, got %v", want, err)
				}
			}
		})
	}
}
