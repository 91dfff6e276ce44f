package profile

import (
	"slices"
	"testing"
)

func TestStart_WithoutMode(t *testing.T) {
	p := Start(WithDir(t.TempDir()), WithQuiet(true))
	if _, ok := p.(nop); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}

	p.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	p := Start(WithMode("no-such-mode"), WithDir(t.TempDir()), WithQuiet(true))
	if _, ok := p.(nop); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}

	p.Stop()
}

func TestOptions(t *testing.T) {
	var s settings

	for _, opt := range []Option{WithMode("cpu"), WithDir("/tmp/lis"), WithQuiet(true)} {
		opt(&s)
	}

	if s != (settings{mode: "cpu", dir: "/tmp/lis", quiet: true}) {
		t.Errorf("unexpected settings %+v", s)
	}
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("modes not sorted: %v", m)
	}
}
