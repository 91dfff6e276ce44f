package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI escape sequences used by the pretty handler.
const (
	ansiReset   = "\033[0m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiGray    = "\033[90m"
)

// levelName returns the uppercase name of level, so the trace level reads
// "TRACE" rather than "DEBUG-4".
func levelName(level slog.Level) string {
	return strings.ToUpper(Level(level).String())
}

// levelColor returns the color a level name is painted with.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiBlue
	}
}

// prettyHandler is a colorized [slog.Handler] for terminals. In text mode a
// record is one line of key=value pairs; in JSON mode it is a brace-delimited
// block with one "key: value" field per line. Values are never quoted.
//
// Groups are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	json   bool
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []slog.Attr
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{opts: *opts, json: json, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// qualify prefixes each key with the open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

// builtin passes one of the record's standard attributes through the
// configured ReplaceAttr.
func (h *prettyHandler) builtin(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var (
		buf bytes.Buffer
		n   int
	)

	field := func(key, color, value string) {
		h.writeField(&buf, n, key, color, value)
		n++
	}

	if !r.Time.IsZero() {
		if a := h.builtin(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			field(a.Key, ansiBlue, timeText(a.Value))
		}
	}

	if a := h.builtin(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		field(a.Key, levelColor(r.Level), a.Value.String())
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			field(slog.SourceKey, ansiGray, src.File+":"+strconv.Itoa(src.Line))
		}
	}

	field(slog.MessageKey, "", r.Message)

	emit := func(a slog.Attr) {
		h.flatten(a, "", func(key string, v slog.Value) {
			color, text := paint(v)
			field(key, color, text)
		})
	}

	for _, a := range h.attrs {
		emit(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		emit(slog.Attr{Key: h.prefix + a.Key, Value: a.Value})

		return true
	})

	if h.json {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// writeField appends the i'th field of a record to buf.
func (h *prettyHandler) writeField(buf *bytes.Buffer, i int, key, color, value string) {
	switch {
	case h.json && i == 0:
		buf.WriteString("{\n  ")
	case h.json:
		buf.WriteString(",\n  ")
	case i > 0:
		buf.WriteByte(' ')
	}

	buf.WriteString(ansiGray + key + ansiReset)

	if h.json {
		buf.WriteString(": ")
	} else {
		buf.WriteByte('=')
	}

	if color == "" {
		buf.WriteString(value)

		return
	}

	buf.WriteString(color + value + ansiReset)
}

// flatten resolves v and reports each leaf attribute under a dotted key.
func (h *prettyHandler) flatten(a slog.Attr, prefix string, leaf func(string, slog.Value)) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range v.Group() {
			h.flatten(g, prefix, leaf)
		}

		return
	}

	if a.Key == "" {
		return
	}

	leaf(prefix+a.Key, v)
}

func timeText(v slog.Value) string {
	if v.Kind() == slog.KindTime {
		return v.Time().Format(time.RFC3339)
	}

	return v.String()
}

// paint returns the color and text of a resolved value.
func paint(v slog.Value) (color, text string) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return ansiYellow, v.String()

	case slog.KindBool:
		if v.Bool() {
			return ansiGreen, "true"
		}

		return ansiRed, "false"

	case slog.KindDuration:
		return ansiMagenta, v.Duration().String()

	case slog.KindTime:
		return ansiBlue, v.Time().Format(time.RFC3339)

	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			return ansiGray, "null"
		case error:
			return ansiRed, x.Error()
		default:
			return ansiCyan, fmt.Sprint(x)
		}

	default:
		return ansiCyan, v.String()
	}
}
