package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// Failures reported by the reader and evaluator. Returned errors carry
// context attributes on top of one of these and still satisfy [errors.Is]
// against it.
var (
	ErrUnexpectedEOF        = NewError("unexpected end of input")
	ErrUnexpectedCloseParen = NewError("unexpected )")
	ErrUndefinedSymbol      = NewError("undefined symbol")
	ErrTypeMismatch         = NewError("type mismatch")
	ErrArityMismatch        = NewError("arity mismatch")
	ErrEmptyListAccess      = NewError("empty list access")
	ErrMaxDepthExceeded     = NewError("maximum evaluation depth exceeded")
	ErrReadInput            = NewError("failed to read input")
)

// Error is an immutable error value with an optional cause and attributes
// describing where it occurred. It logs as a group via [slog.LogValuer].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	base  *Error
}

// NewError returns a sentinel with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err itself if it already is an *Error, or a message-less
// *Error whose cause is err.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error renders "msg: cause [k=v ...]", omitting whichever parts are empty.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	for i, a := range e.attrs {
		if i == 0 {
			b.WriteString(" [")
		} else {
			b.WriteByte(' ')
		}

		b.WriteString(a.String())
	}

	if len(e.attrs) > 0 {
		b.WriteByte(']')
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether e and target descend from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base == nil {
		return e
	}

	return e.base
}

func (e *Error) LogValue() slog.Value {
	group := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		group = append(group, slog.String("error", e.msg))
	}

	if e.err != nil {
		group = append(group, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(group, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With returns a copy of e with attrs appended. The receiver is unchanged.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = append(slices.Clip(d.attrs), attrs...)

	return d
}

func (e *Error) derive() *Error {
	return &Error{msg: e.msg, err: e.err, attrs: e.attrs, base: e.root()}
}
