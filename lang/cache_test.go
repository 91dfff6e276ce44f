package lang

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/lis/log"
)

func TestParseReader(t *testing.T) {
	ClearCache()

	prog, err := ParseReader(t.Context(), strings.NewReader("(define a 1)\n(+ a 2)"))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if len(prog) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(prog))
	}

	if got := Render(prog[1]); got != "( + a 2 )" {
		t.Errorf("expected %q, got %q", "( + a 2 )", got)
	}
}

func TestParseReader_CacheHit(t *testing.T) {
	ClearCache()

	source := "(list 1 2 3)"

	first, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("first ParseReader failed: %v", err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("second ParseReader failed: %v", err)
	}

	// Both results share the same cached backing array.
	if &first[0] != &second[0] {
		t.Error("expected cached program to be reused")
	}

	ClearCache()

	third, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("third ParseReader failed: %v", err)
	}

	if &first[0] == &third[0] {
		t.Error("expected a fresh parse after ClearCache")
	}
}

func TestParseReader_CachesErrors(t *testing.T) {
	ClearCache()

	for range 2 {
		_, err := ParseReader(t.Context(), strings.NewReader("(unclosed"))
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("expected cause io.ErrClosedPipe, got %v", err)
	}
}

func TestParseReader_Logging(t *testing.T) {
	ClearCache()

	var buf bytes.Buffer

	logger := log.Make(
		&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	if _, err := ParseReader(t.Context(), strings.NewReader("a"), WithLogger(logger)); err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	for _, msg := range []string{"read input", "cache lookup"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("expected log to contain %q, got %s", msg, buf.String())
		}
	}
}

func TestParseReader_Concurrent(t *testing.T) {
	ClearCache()

	const workers = 8

	var wg sync.WaitGroup

	results := make([]Program, workers)

	for i := range workers {
		wg.Go(func() {
			prog, err := ParseReader(t.Context(), strings.NewReader("(a (b c))"))
			if err != nil {
				t.Errorf("worker %d: %v", i, err)

				return
			}

			results[i] = prog
		})
	}

	wg.Wait()

	for i, prog := range results {
		if len(prog) != 1 || Render(prog[0]) != "( a ( b c ) )" {
			t.Errorf("worker %d: unexpected program %v", i, prog)
		}
	}
}
