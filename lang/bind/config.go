package bind

import (
	"fmt"
	"io"

	"github.com/ardnew/hbind/log"
)

// NameResolver transforms a member name from a template path before it is
// looked up on a map, dynamic object, or struct.
type NameResolver func(name string) string

// Formatter writes a resolved value to w. It decides how [Undefined] and nil
// render.
type Formatter func(w io.Writer, value any) error

// Helper is a helper function invoked by name with evaluated arguments.
// Helpers write to ctx.Output() directly.
type Helper func(ctx *Context, args []any) error

// BlockHelper is a helper opened as a block. It renders its body (and
// optionally its inverse section) through opts, typically with child
// contexts built from ctx.
type BlockHelper func(ctx *Context, opts BlockOptions, args []any) error

// Helpers looks up helpers by name. It is implemented by the helper registry.
type Helpers interface {
	Helper(name string) (Helper, bool)
	BlockHelper(name string) (BlockHelper, bool)
}

// BlockOptions gives a [BlockHelper] access to its body and inverse section.
type BlockOptions struct {
	Name    string
	fn      func(*Context) error
	inverse func(*Context) error
	res     *Resolver
}

// Fn renders the block body with ctx in scope.
func (o BlockOptions) Fn(ctx *Context) error {
	if o.fn == nil {
		return nil
	}

	return o.fn(ctx)
}

// Inverse renders the {{else}} section with ctx in scope. It does nothing
// when the block has no inverse section.
func (o BlockOptions) Inverse(ctx *Context) error {
	if o.inverse == nil {
		return nil
	}

	return o.inverse(ctx)
}

// HasInverse reports whether the block has an {{else}} section.
func (o BlockOptions) HasInverse() bool { return o.inverse != nil }

// Resolve resolves path against ctx with the same configuration the block
// was compiled with.
func (o BlockOptions) Resolve(ctx *Context, path string) (any, error) {
	return o.res.Resolve(ctx, path)
}

// Config holds the compile-time configuration of a bound template.
type Config struct {
	NameResolver NameResolver
	Helpers      Helpers
	Formatter    Formatter
	Logger       log.Logger
}

// Option configures a [Config].
type Option func(*Config)

// NewConfig returns a Config with defaults applied, overridden by opts.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Formatter: DefaultFormatter,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithNameResolver sets the member-name resolution hook.
func WithNameResolver(r NameResolver) Option {
	return func(c *Config) {
		c.NameResolver = r
	}
}

// WithHelpers sets the helper lookup used to execute helper nodes.
func WithHelpers(h Helpers) Option {
	return func(c *Config) {
		c.Helpers = h
	}
}

// WithFormatter sets the function used to write values to the output.
// A nil formatter restores [DefaultFormatter].
func WithFormatter(f Formatter) Option {
	return func(c *Config) {
		if f == nil {
			f = DefaultFormatter
		}

		c.Formatter = f
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultFormatter writes nothing for nil and [Undefined], strings verbatim,
// and everything else in its fmt default format.
func DefaultFormatter(w io.Writer, value any) error {
	switch v := value.(type) {
	case nil, UndefinedBinding:
		return nil

	case string:
		_, err := io.WriteString(w, v)

		return err

	default:
		_, err := fmt.Fprint(w, v)

		return err
	}
}
