package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lis/log"
)

// logLevel and logFormat reconfigure the default logger while kong decodes
// them. Anything reported during the rest of parsing, such as a rejected
// configuration file, is then written at the requested level and format.
type (
	logLevel  string
	logFormat string
)

func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(text))))

	return nil
}

func (l logLevel) String() string { return string(l) }

func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(text))))

	return nil
}

func (f logFormat) String() string { return string(f) }

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevels}"  help:"Minimum severity written (${enum})"`
	Format     logFormat `default:"json"    enum:"${logFormats}" help:"Record encoding (${enum})"`
	TimeLayout string    `default:"RFC3339"                      help:"Timestamp layout name or Go reference layout, 'none' omits it"`
	Caller     bool      `default:"false"                        help:"Annotate records with the calling source line"                  negatable:""`
	Pretty     bool      `default:"true"                         help:"Colorize records for a terminal"                                negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging"}
}

// start hands the fully parsed flags to the default logger. TimeLayout has
// no decoding hook, so this is the first point it takes effect.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	attrs := []slog.Attr{
		slog.String("level", f.Level.String()),
		slog.String("format", f.Format.String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	}

	log.DebugContext(ctx, "logging configured", attrs...)

	return func() { log.TraceContext(ctx, "run complete") }
}

// scan applies the logging flags found in args before kong sees them.
// Boolean flags are decoded by kong without a hook, so without this pass a
// trailing --no-log-pretty would not affect messages logged mid-parse.
// Malformed values are skipped and left for kong to reject.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		flag, value, attached := strings.Cut(args[i], "=")

		key, negated := strings.CutPrefix(flag, "--no-log-")
		if !negated {
			var ok bool
			if key, ok = strings.CutPrefix(flag, "--log-"); !ok {
				continue
			}
		}

		switch key {
		case "level", "format":
			if negated {
				continue
			}

			if !attached && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if key == "level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "pretty", "caller":
			on := true

			if attached {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			if negated {
				on = !on
			}

			f.toggle(key, on)
		}
	}
}

func (f *logConfig) toggle(key string, on bool) {
	if key == "pretty" {
		f.Pretty = on
		log.Config(log.WithPretty(on))

		return
	}

	f.Caller = on
	log.Config(log.WithCaller(on))
}
