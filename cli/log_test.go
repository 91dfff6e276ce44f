package cli

import (
	"testing"

	"github.com/ardnew/lis/log"
)

func TestLogConfig_Scan(t *testing.T) {
	original := log.Default()
	t.Cleanup(func() { log.Config(log.WithLevel(original.Level()), log.WithFormat(original.Format())) })

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{"empty", nil, "", "", true, false},
		{"attached", []string{"--log-level=trace", "--log-format=text"}, "trace", "text", true, false},
		{"separate", []string{"eval", "--log-level", "debug", "(+ 1 2)"}, "debug", "", true, false},
		{"flag value not consumed", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"negated", []string{"--no-log-pretty", "--log-caller"}, "", "", false, true},
		{"explicit bool", []string{"--log-pretty=false", "--no-log-caller=false"}, "", "", false, true},
		{"invalid bool ignored", []string{"--log-pretty=maybe"}, "", "", true, false},
		{"unrelated", []string{"--source", "a.lisp", "--max-depth=10"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format {
				t.Errorf("expected (%q, %q), got (%q, %q)", tt.level, tt.format, f.Level, f.Format)
			}

			if f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("expected pretty=%v caller=%v, got pretty=%v caller=%v",
					tt.pretty, tt.caller, f.Pretty, f.Caller)
			}
		})
	}
}

func TestLogConfig_Start(t *testing.T) {
	original := log.Default()
	t.Cleanup(func() { log.Config(log.WithLevel(original.Level()), log.WithFormat(original.Format())) })

	f := logConfig{Level: "warn", Format: "text", TimeLayout: "none"}
	stop := f.start(t.Context())

	if got := log.Default().Level(); got != log.LevelWarn {
		t.Errorf("expected level warn, got %v", got)
	}

	if got := log.Default().Format(); got != log.FormatText {
		t.Errorf("expected format text, got %v", got)
	}

	stop()
}
