package lang

import (
	"errors"
	"testing"
)

// evalRender parses, evaluates and renders input in env.
func evalRender(t *testing.T, env *Env, input string) string {
	t.Helper()

	x, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}

	v, err := Eval(x, env)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", input, err)
	}

	return Render(v)
}

// TestSession runs a sequence of inputs in one environment. Later cases
// depend on definitions made by earlier ones.
func TestSession(t *testing.T) {
	env := StandardEnvironment()

	session := []struct {
		input string
		want  string
	}{
		{"(quote (testing 1 (2.0) -3.14e159))", "( testing 1 ( 2 ) -3.14e+159 )"},
		{"(quote (testing 1 (2) -3.14159))", "( testing 1 ( 2 ) -3.14159 )"},
		{"(+ 2 2)", "4"},
		{"(+ (* 2 100) (* 1 10))", "210"},
		{"(if (> 6 5) (+ 1 1) (+ 2 2))", "2"},
		{"(if (< 6 5) (+ 1 1) (+ 2 2))", "4"},
		{"(define x 3)", ""},
		{"x", "3"},
		{"(+ x x)", "6"},
		{"((lambda (y) (+ y y)) 5)", "10"},
		{"(define twice (lambda (y) (* 2 y)))", ""},
		{"(twice 5)", "10"},
		{"(define compose (lambda (f g) (lambda (y) (f (g y)))))", ""},
		{"((compose list twice) 5)", "( 10 )"},
		{"(define repeat (lambda (f) (compose f f)))", ""},
		{"((repeat twice) 5)", "20"},
		{"((repeat (repeat twice)) 5)", "80"},
		{"(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))", ""},
		{"(fact 3)", "6"},
		{"(fact 5)", "120"},
		{"(define abs (lambda (n) ((if (> n 0) + -) 0 n)))", ""},
		{"(list (abs -3) (abs 0) (abs 3))", "( 3 0 3 )"},
		{
			"(define combine (lambda (f) (lambda (x y) (if (null? x) (quote ()) " +
				"(f (list (car x) (car y)) ((combine f) (cdr x) (cdr y)))))))",
			"",
		},
		{"(define zip (combine cons))", ""},
		{"(zip (list 1 2 3 4) (list 5 6 7 8))", "( ( 1 5 ) ( 2 6 ) ( 3 7 ) ( 4 8 ) )"},
		{
			"(define riff-shuffle (lambda (deck) (begin " +
				"(define take (lambda (n seq) (if (<= n 0) (quote ()) (cons (car seq) (take (- n 1) (cdr seq)))))) " +
				"(define drop (lambda (n seq) (if (<= n 0) seq (drop (- n 1) (cdr seq))))) " +
				"(define mid (lambda (seq) (/ (length seq) 2))) " +
				"((combine append) (take (mid deck) deck) (drop (mid deck) deck)))))",
			"",
		},
		{"(riff-shuffle (list 1 2 3 4 5 6 7 8))", "( 1 5 2 6 3 7 4 8 )"},
		{"((repeat riff-shuffle) (list 1 2 3 4 5 6 7 8))", "( 1 3 5 7 2 4 6 8 )"},
		{"(riff-shuffle (riff-shuffle (riff-shuffle (list 1 2 3 4 5 6 7 8))))", "( 1 2 3 4 5 6 7 8 )"},
	}

	for _, tt := range session {
		if got := evalRender(t, env, tt.input); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestEval_SelfEvaluating(t *testing.T) {
	env := StandardEnvironment()

	tests := []Expr{
		Number(42),
		Number(-0.5),
		List(),
		List(Number(1), Symbol("a")),
	}

	for _, x := range tests {
		t.Run(Render(x), func(t *testing.T) {
			v, err := Eval(x, env)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}

			if Render(v) != Render(x) {
				t.Errorf("expected %q, got %q", Render(x), Render(v))
			}

			again, err := Eval(v, env)
			if err != nil {
				t.Fatalf("second Eval failed: %v", err)
			}

			if Render(again) != Render(v) {
				t.Errorf("not idempotent: %q then %q", Render(v), Render(again))
			}
		})
	}
}

func TestEval_IfEvaluatesOneBranch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		bound string
		unset string
	}{
		{"true", "(if #t (define a 1) (define b 2))", "", "a", "b"},
		{"false", "(if #f (define a 1) (define b 2))", "", "b", "a"},
		{"number test", "(if 1 (define a 1) (define b 2))", "", "b", "a"},
		{"empty list test", "(if (quote ()) (define a 1) (define b 2))", "", "b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := StandardEnvironment()

			if got := evalRender(t, env, tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if _, ok := env.Local(tt.bound); !ok {
				t.Errorf("expected %q to be defined", tt.bound)
			}

			if _, ok := env.Local(tt.unset); ok {
				t.Errorf("expected %q to be undefined", tt.unset)
			}
		})
	}
}

func TestEval_UnselectedBranchErrorIgnored(t *testing.T) {
	env := StandardEnvironment()

	if got := evalRender(t, env, "(if (= 1 1) 7 undefined-thing)"); got != "7" {
		t.Errorf("expected %q, got %q", "7", got)
	}
}

func TestEval_ClosureCapture(t *testing.T) {
	env := StandardEnvironment()

	evalRender(t, env, "(define make-adder (lambda (n) (lambda (x) (+ x n))))")
	evalRender(t, env, "(define add5 (make-adder 5))")
	evalRender(t, env, "(define n 100)")

	if got := evalRender(t, env, "(add5 1)"); got != "6" {
		t.Errorf("expected %q, got %q", "6", got)
	}
}

func TestEval_DefineInsideClosureIsLocal(t *testing.T) {
	env := StandardEnvironment()

	evalRender(t, env, "(define f (lambda (v) (begin (define inner v) inner)))")

	if got := evalRender(t, env, "(f 9)"); got != "9" {
		t.Errorf("expected %q, got %q", "9", got)
	}

	if _, ok := env.Local("inner"); ok {
		t.Error("expected inner to stay in the call environment")
	}
}

func TestEval_FailedDefineLeavesEnvUnchanged(t *testing.T) {
	env := StandardEnvironment()

	evalRender(t, env, "(define y 1)")

	x, err := Parse("(define y (car nil))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := Eval(x, env); !errors.Is(err, ErrEmptyListAccess) {
		t.Fatalf("expected ErrEmptyListAccess, got %v", err)
	}

	if got := evalRender(t, env, "y"); got != "1" {
		t.Errorf("expected y to remain %q, got %q", "1", got)
	}
}

func TestEval_RebindBuiltin(t *testing.T) {
	env := StandardEnvironment()

	evalRender(t, env, "(define + *)")

	if got := evalRender(t, env, "(+ 3 4)"); got != "12" {
		t.Errorf("expected %q, got %q", "12", got)
	}

	if other := StandardEnvironment(); evalRender(t, other, "(+ 3 4)") != "7" {
		t.Error("rebinding leaked into a fresh environment")
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"undefined symbol", "undefined-thing", ErrUndefinedSymbol},
		{"undefined operator", "(frobnicate 1)", ErrUndefinedSymbol},
		{"apply number", "(1 2 3)", ErrTypeMismatch},
		{"apply list", "((quote ()) 1)", ErrTypeMismatch},
		{"closure too few", "((lambda (a b) a) 1)", ErrArityMismatch},
		{"closure too many", "((lambda (a) a) 1 2)", ErrArityMismatch},
		{"param not symbol", "((lambda (1) 1) 2)", ErrTypeMismatch},
		{"params not sequence", "(lambda x x)", ErrTypeMismatch},
		{"define non-symbol", "(define 1 2)", ErrTypeMismatch},
		{"define arity", "(define a)", ErrArityMismatch},
		{"quote arity", "(quote)", ErrArityMismatch},
		{"if arity", "(if #t 1)", ErrArityMismatch},
		{"lambda arity", "(lambda (x))", ErrArityMismatch},
		{"operand error", "(+ 1 missing)", ErrUndefinedSymbol},
		{"add symbol", "(+ 1 (quote a))", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			_, err = Eval(x, StandardEnvironment())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEval_MaxDepth(t *testing.T) {
	in := New(WithMaxDepth(50))

	if _, err := in.EvalString(t.Context(), "(define loop (lambda (n) (loop n)))"); err != nil {
		t.Fatalf("define failed: %v", err)
	}

	_, err := in.EvalString(t.Context(), "(loop 1)")
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("expected ErrMaxDepthExceeded, got %v", err)
	}

	// The session remains usable after the limit is hit.
	got, err := in.EvalString(t.Context(), "(+ 1 2)")
	if err != nil {
		t.Fatalf("eval after limit failed: %v", err)
	}

	if got != "3" {
		t.Errorf("expected %q, got %q", "3", got)
	}
}

func TestEval_EmptyForm(t *testing.T) {
	v, err := Eval(Form(), StandardEnvironment())
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if v.Kind() != KindList || v.Len() != 0 {
		t.Errorf("expected empty List, got %s %q", v.Kind(), Render(v))
	}
}

func TestEval_LambdaRetagsForm(t *testing.T) {
	env := StandardEnvironment()

	form, err := Parse("(lambda (x y) (+ x y))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	v, err := Eval(form, env)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if v.Kind() != KindClosure || v.Env() != env {
		t.Fatalf("expected a closure over the defining environment, got %s", v.Kind())
	}

	got, _ := v.Elems()
	want, _ := form.Elems()

	if len(got) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(got))
	}

	for i := range want {
		if Render(got[i]) != Render(want[i]) {
			t.Errorf("child %d: expected %q, got %q", i, Render(want[i]), Render(got[i]))
		}
	}

	if form.Kind() != KindForm {
		t.Errorf("expected the source form to keep its kind, got %s", form.Kind())
	}
}

func TestEval_NumericKeywordsAreNotSymbols(t *testing.T) {
	env := StandardEnvironment()

	if _, err := Eval(mustParse(t, "(define inf 1)"), env); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	if got := evalRender(t, env, "(< 1e308 inf)"); got != "#t" {
		t.Errorf("expected #t, got %q", got)
	}
}

func mustParse(t *testing.T, text string) Expr {
	t.Helper()

	x, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}

	return x
}

func BenchmarkEval_Fact(b *testing.B) {
	env := StandardEnvironment()

	def, _ := Parse("(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))")
	if _, err := Eval(def, env); err != nil {
		b.Fatalf("define failed: %v", err)
	}

	call, _ := Parse("(fact 20)")

	b.ReportAllocs()

	for b.Loop() {
		if _, err := Eval(call, env); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval_RiffShuffle(b *testing.B) {
	in := New()

	prog, err := ParseAll(`
(define combine (lambda (f) (lambda (x y) (if (null? x) (quote ())
  (f (list (car x) (car y)) ((combine f) (cdr x) (cdr y)))))))
(define riff-shuffle (lambda (deck) (begin
  (define take (lambda (n seq) (if (<= n 0) (quote ()) (cons (car seq) (take (- n 1) (cdr seq))))))
  (define drop (lambda (n seq) (if (<= n 0) seq (drop (- n 1) (cdr seq)))))
  (define mid (lambda (seq) (/ (length seq) 2)))
  ((combine append) (take (mid deck) deck) (drop (mid deck) deck)))))
`)
	if err != nil {
		b.Fatalf("ParseAll failed: %v", err)
	}

	if _, err := in.EvalProgram(b.Context(), prog); err != nil {
		b.Fatalf("EvalProgram failed: %v", err)
	}

	call, _ := Parse("(riff-shuffle (list 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16))")

	b.ReportAllocs()

	for b.Loop() {
		if _, err := in.Eval(b.Context(), call); err != nil {
			b.Fatal(err)
		}
	}
}
