package bind

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParentOfRoot   = NewError("path expression tried to reference parent of root")
	ErrNilContext     = NewError("no binding context")
	ErrUnbound        = NewError("node was not bound before execution")
	ErrHelperNotFound = NewError("helper not found")
	ErrNotBlockHelper = NewError("helper cannot be used as a block")
	ErrWrite          = NewError("failed to write output")
	ErrCall           = NewError("method call failed")
	ErrUnknownNode    = NewError("unknown node kind")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
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
// Errors created from a sentinel with [Error.Wrap] or [Error.With] match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// CompilerError reports a template that is structurally incompatible with
// the runtime scope chain, such as a path that navigates above the root
// context. Unlike a missing member, which resolves to [Undefined], a
// CompilerError aborts the render.
type CompilerError struct {
	Path  string // path expression being resolved
	Depth int    // depth of the context the path was resolved from
	err   error
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return "compile error: " + e.err.Error() + ": " + strconv.Quote(e.Path)
}

// Unwrap returns the underlying sentinel.
func (e *CompilerError) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *CompilerError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.err.Error()),
		slog.String("path", e.Path),
		slog.Int("depth", e.Depth),
	)
}
