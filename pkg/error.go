package pkg

import (
	"errors"
	"log/slog"
	"strings"
)

// Class categorizes an [Error] by how the interpreter recovers from it.
type Class int

const (
	// ClassArgument covers wrong arity, unknown, duplicate and conflicting
	// flags. The current line is aborted.
	ClassArgument Class = iota + 1
	// ClassRuntime covers malformed values, unknown identity keys and
	// unsupported attribute selection. The current line is aborted.
	ClassRuntime
	// ClassBuild covers malformed command registration. It is fatal at
	// startup.
	ClassBuild
	// ClassStorage covers persistence failures. In-memory state is kept.
	ClassStorage
)

// String returns the lower-case name of the class.
func (c Class) String() string {
	switch c {
	case ClassArgument:
		return "argument"
	case ClassRuntime:
		return "runtime"
	case ClassBuild:
		return "build"
	case ClassStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a classified error with optional structured logging attributes.
// It implements both error and [slog.LogValuer].
//
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match that sentinel with [errors.Is].
type Error struct {
	origin *Error
	msg    string
	err    error
	attrs  []slog.Attr
	class  Class
}

// NewError creates a new sentinel Error of the given class.
func NewError(class Class, msg string) *Error {
	e := &Error{msg: msg, class: class}
	e.origin = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>" or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.origin != nil && e.origin == t.origin
}

// Class returns the class of e.
func (e *Error) Class() Class { return e.class }

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	attrs = append(attrs, slog.String("class", e.class.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Detail returns a copy of e whose cause is a plain error with text msg.
func (e *Error) Detail(msg string) *Error {
	return e.Wrap(errors.New(msg))
}

// With returns a copy of e with attrs appended to its logging attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(append(c.attrs, e.attrs...), attrs...)

	return &c
}

// Attrs returns the logging attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// ClassOf returns the class of the outermost [Error] in err's chain, or zero
// if there is none.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.class
	}

	return 0
}
