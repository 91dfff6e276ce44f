package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/lang"
)

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name string
		expr lang.Expr
		want any
		ok   bool
	}{
		{"integer", lang.Number(5000), "5000", true},
		{"fraction", lang.Number(0.25), "0.25", true},
		{"large", lang.Number(1e7), "10000000", true},
		{"true", lang.True, "true", true},
		{"false", lang.False, "false", true},
		{"symbol", lang.Symbol("debug"), "debug", true},
		{"list", lang.List(lang.Symbol("a.lisp"), lang.Symbol("b.lisp")), "a.lisp,b.lisp", true},
		{"empty list", lang.List(), "", true},
		{"unit", lang.Unit, nil, false},
		{"primitive", lang.Builtin(func([]lang.Expr) (lang.Expr, error) { return lang.Unit, nil }), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := configValue(tt.expr)
			if ok != tt.ok || got != tt.want {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestResolve_AppliesDefinitions(t *testing.T) {
	source := `
		(define log-level (quote debug))
		(define max_depth (* 50 100))
		(define pretty #f)
		(define source (quote (a.lisp b.lisp)))
		(define unrelated 1)`

	r, err := resolve(t.Context())(strings.NewReader(source))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var app struct {
		LogLevel string `default:"info"`
		MaxDepth int    `default:"100"`
		Pretty   bool   `default:"true"`
		Source   []string
		Caller   bool `default:"true"`
	}

	parser, err := kong.New(&app, kong.Resolvers(r))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if app.LogLevel != "debug" {
		t.Errorf("expected log-level debug, got %q", app.LogLevel)
	}

	if app.MaxDepth != 5000 {
		t.Errorf("expected max-depth 5000, got %d", app.MaxDepth)
	}

	if app.Pretty {
		t.Error("expected pretty disabled")
	}

	if !app.Caller {
		t.Error("expected unconfigured caller to keep its default")
	}

	if !slices.Equal(app.Source, []string{"a.lisp", "b.lisp"}) {
		t.Errorf("unexpected source %q", app.Source)
	}
}

func TestResolve_CommandLineWins(t *testing.T) {
	r, err := resolve(t.Context())(strings.NewReader(`(define log-level (quote warn))`))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var app struct {
		LogLevel string `default:"info"`
	}

	parser, err := kong.New(&app, kong.Resolvers(r))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}

	if _, err := parser.Parse([]string{"--log-level=error"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if app.LogLevel != "error" {
		t.Errorf("expected log-level error, got %q", app.LogLevel)
	}
}

func TestResolve_StandardNamesAreNotFlags(t *testing.T) {
	// Built-in procedures live in the parent scope and never resolve.
	r, err := resolve(t.Context())(strings.NewReader(`(define x 1)`))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "car"}})
	if err != nil || v != nil {
		t.Errorf("expected no value for car, got (%v, %v)", v, err)
	}
}

func TestResolve_BrokenConfigIgnored(t *testing.T) {
	for _, source := range []string{"(define a", "(undefined-procedure 1)"} {
		r, err := resolve(t.Context())(strings.NewReader(source))
		if err != nil {
			t.Fatalf("%q: expected nil error, got %v", source, err)
		}

		v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "a"}})
		if err != nil || v != nil {
			t.Errorf("%q: expected no value, got (%v, %v)", source, v, err)
		}
	}
}
