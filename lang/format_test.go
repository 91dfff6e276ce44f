package lang

import (
	"bytes"
	"strings"
	"testing"
)

const formatSource = "(define sq (lambda (x) (* x x)))\n(sq 1.5)\n()"

func parseFormatSource(t *testing.T) Program {
	t.Helper()

	prog, err := ParseAll(formatSource)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}

	return prog
}

func TestProgram_Format(t *testing.T) {
	var buf bytes.Buffer

	if err := parseFormatSource(t).Format(t.Context(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	want := "( define sq ( lambda ( x ) ( * x x ) ) )\n( sq 1.5 )\n( )\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			"compact",
			0,
			`[["define","sq",["lambda",["x"],["*","x","x"]]],["sq",1.5],[]]` + "\n",
		},
		{
			"indented",
			2,
			"[\n  [\n    \"sq\",\n    1.5\n  ]\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseFormatSource(t)
			if tt.indent > 0 {
				prog = prog[1:2]
			}

			var buf bytes.Buffer

			if err := prog.FormatJSON(t.Context(), &buf, tt.indent); err != nil {
				t.Fatalf("FormatJSON failed: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	var buf bytes.Buffer

	prog := parseFormatSource(t)[1:2]

	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatYAML failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"sq", "1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected YAML to contain %q, got:\n%s", want, out)
		}
	}

	buf.Reset()

	if err := prog.FormatYAML(t.Context(), &buf, 0); err != nil {
		t.Fatalf("FormatYAML flow failed: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "[") {
		t.Errorf("expected flow style, got:\n%s", buf.String())
	}
}

func TestProgram_Print(t *testing.T) {
	prog, err := ParseAll("(sq 2) ()")
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}

	var buf bytes.Buffer

	if err := prog.Print(t.Context(), &buf); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	want := "Form: 2\n  Symbol: sq\n  Number: 2\nList: 0\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestExpr_ToNative(t *testing.T) {
	x := Form(Symbol("a"), Number(2), List())

	native, ok := x.ToNative().([]any)
	if !ok || len(native) != 3 {
		t.Fatalf("expected []any of length 3, got %#v", x.ToNative())
	}

	if native[0] != "a" || native[1] != 2.0 {
		t.Errorf("unexpected elements %#v", native)
	}

	if inner, ok := native[2].([]any); !ok || len(inner) != 0 {
		t.Errorf("expected empty []any, got %#v", native[2])
	}

	if Unit.ToNative() != nil {
		t.Error("expected Unit to convert to nil")
	}
}
