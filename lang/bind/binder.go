package bind

import (
	"io"
	"log/slog"

	"github.com/ardnew/hbind/lang/ast"
)

// Template renders a bound template body. data is either the value to render
// or an existing *[Context]; when it is a Context, the template renders into
// that scope (and its output) instead of starting a new one.
type Template func(w io.Writer, data any) error

// Bind returns the executable form of a bound body.
//
// Each call of the returned Template establishes the active context once: a
// *[Context] passed as data is used as is, which lets nested and partial
// templates share their caller's scope chain; any other data becomes the
// value of a new Context writing to w and nested inside parent (nil for a
// root template). The body then runs with that context in scope.
//
// The Template holds no mutable state and may be called concurrently.
func Bind(body ast.Node, cfg *Config, parent *Context) Template {
	if cfg == nil {
		cfg = NewConfig()
	}

	x := newExecutor(cfg)

	return func(w io.Writer, data any) error {
		ctx, reused := data.(*Context)
		if !reused || ctx == nil {
			reused = false
			ctx = NewContext(data, w, parent)
		}

		cfg.Logger.Trace("render",
			slog.Bool("reused_context", reused),
			slog.Int("depth", ctx.Depth()),
		)

		return x.run(ctx, body)
	}
}

// Compile rewrites body and binds the result. It is shorthand for
// Bind(Rewrite(body), cfg, parent).
func Compile(body ast.Node, cfg *Config, parent *Context) Template {
	return Bind(Rewrite(body), cfg, parent)
}
