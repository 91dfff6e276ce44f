package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

// LevelTrace sits below [slog.LevelDebug] for per-expression evaluator
// output.
const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lowercase name of the level. Levels between the named
// ones are reported as an offset, e.g. "info+2".
func (l Level) String() string {
	if l >= LevelDebug {
		return strings.ToLower(slog.Level(l).String())
	}

	switch off := int(l - LevelTrace); {
	case off == 0:
		return "trace"
	case off > 0:
		return "trace+" + strconv.Itoa(off)
	default:
		return "trace" + strconv.Itoa(off)
	}
}

// Levels returns an iterator over the names of the defined log levels, from
// most to least verbose.
func Levels() iter.Seq[string] {
	return names(levels)
}

// ParseLevel parses a level name, case-insensitively. Names other than
// "trace" follow [slog.Level.UnmarshalText], so offsets such as "warn+1" are
// accepted. Unrecognized text yields [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

var formatNames = map[Format]string{
	FormatText: "text",
	FormatJSON: "json",
}

// String returns the name of the format.
func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns an iterator over the names of the defined log formats.
func Formats() iter.Seq[string] {
	return names([]Format{FormatJSON, FormatText})
}

// ParseFormat parses a format name, ignoring case and surrounding space.
// Unrecognized text yields [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	for f, name := range formatNames {
		if name == s {
			return f
		}
	}

	return DefaultFormat
}

func names[T interface{ String() string }](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime defines a function that formats a time.Time value as a string.
type FormatTime func(time.Time) string

const (
	// DefaultTimeLayout is used when no time layout is configured.
	DefaultTimeLayout = time.RFC3339

	// DefaultCaller reports whether source locations are logged by default.
	DefaultCaller = false

	// DefaultPretty reports whether output is colorized by default.
	DefaultPretty = true
)

// config holds the configuration options for a Logger.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// makeConfig returns the default configuration writing to w with opts
// applied.
func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{mutex: &sync.RWMutex{}}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone copies the config under a fresh mutex and applies opts.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// handlerOptions returns the slog options for c. Timestamps are rendered with
// the configured layout and dropped when it is empty; levels use [Level]
// names so trace output reads "TRACE".
func (c config) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					s := c.formatTime(t)
					if s == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(s)
				}

			case slog.LevelKey:
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelName(l))
				}
			}

			return a
		},
	}
}

// handler returns the slog.Handler selected by the format and pretty
// settings of c. An unknown format discards output.
func (c config) handler() slog.Handler {
	opts := c.handlerOptions()

	switch {
	case c.format != FormatText && c.format != FormatJSON:
		return slog.DiscardHandler
	case c.pretty:
		return newPrettyHandler(c.output, opts, c.format == FormatJSON)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// WithDefaults returns an option that resets every setting to its default
// and writes to w (or discards output when w is nil).
func WithDefaults(w io.Writer) Option {
	return option(func(c *config) {
		c.output = writerOrDiscard(w)
		c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput returns an option that sets the destination of log messages.
// A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return option(func(c *config) { c.output = writerOrDiscard(w) })
}

// WithLevel returns an option that sets the minimum level logged.
func WithLevel(level Level) Option {
	return option(func(c *config) { c.level = level })
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return option(func(c *config) { c.format = format })
}

// WithTimeLayout returns an option that sets the timestamp layout.
//
// The layout is either one of the names in [time] (case and punctuation
// are ignored, so "RFC3339Nano" and "rfc-3339-nano" match), a short alias
// such as "ms" or "kitchen", or a layout passed verbatim to
// [time.Time.Format]. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return option(func(c *config) { c.formatTime = format })
}

// WithCaller returns an option that controls whether the source location of
// each message is logged.
func WithCaller(enable bool) Option {
	return option(func(c *config) { c.caller = enable })
}

// WithPretty returns an option that controls colorized output. Pretty text
// prints unquoted key=value pairs; pretty JSON prints one field per line.
func WithPretty(enable bool) Option {
	return option(func(c *config) { c.pretty = enable })
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// namedLayouts lists layout aliases, keyed by their letters and digits in
// lowercase.
var namedLayouts = []struct {
	layout string
	names  []string
}{
	{"", []string{"none"}},
	{time.RFC3339, []string{"rfc3339"}},
	{time.RFC3339Nano, []string{"rfc3339nano"}},
	{time.RFC822, []string{"rfc822"}},
	{time.RFC822Z, []string{"rfc822z"}},
	{time.RFC850, []string{"rfc850"}},
	{time.ANSIC, []string{"ansic"}},
	{time.UnixDate, []string{"unixdate"}},
	{time.RubyDate, []string{"rubydate"}},
	{time.Kitchen, []string{"kitchen"}},
	{time.DateTime, []string{"datetime"}},
	{time.TimeOnly, []string{"timeonly", "time"}},
	{time.Stamp, []string{"stamp"}},
	{time.StampMilli, []string{"stampmilli", "milli", "millis", "ms"}},
	{time.StampMicro, []string{"stampmicro", "micro", "micros", "us"}},
	{time.StampNano, []string{"stampnano", "nano", "nanos", "ns"}},
}

// layoutKey reduces s to its lowercase letters and digits.
func layoutKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(s))
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := layoutKey(layout)
	if key == "" {
		return func(time.Time) string { return "" }
	}

	for _, named := range namedLayouts {
		if slices.Contains(named.names, key) {
			layout = named.layout

			break
		}
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
