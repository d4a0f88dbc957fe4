package helper

import (
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/log"
)

// Registry is a concurrency-safe set of named helpers. It implements
// [bind.Helpers].
type Registry struct {
	mu     sync.RWMutex
	simple map[string]bind.Helper
	block  map[string]bind.BlockHelper

	logger  log.Logger
	resolve bind.NameResolver
	format  bind.Formatter

	programs sync.Map // expression source -> *vm.Program
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used by the log helper and for tracing helper
// registration.
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithNameResolver sets the member-name hook used by the lookup helper.
func WithNameResolver(fn bind.NameResolver) Option {
	return func(r *Registry) { r.resolve = fn }
}

// WithFormatter sets how helpers that print values format them.
func WithFormatter(fn bind.Formatter) Option {
	return func(r *Registry) {
		if fn != nil {
			r.format = fn
		}
	}
}

// Empty returns a Registry with no helpers.
func Empty(opts ...Option) *Registry {
	r := &Registry{
		simple: make(map[string]bind.Helper),
		block:  make(map[string]bind.BlockHelper),
		format: bind.DefaultFormatter,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// New returns a Registry holding the built-in helpers:
//
//	{{#each items}}...{{else}}...{{/each}}   iterate a sequence or map
//	{{#with value}}...{{else}}...{{/with}}   change scope
//	{{lookup value key}}                     print a member of value
//	{{log args...}}                          log args at info level
//	{{eval "expr"}}                          evaluate an expr-lang expression
//	{{jq value "query"}}                     run a jq query over value
//	{{sanitize html}}                        strip unsafe HTML
func New(opts ...Option) *Registry {
	r := Empty(opts...)

	r.RegisterBlock("each", r.each)
	r.RegisterBlock("with", r.with)
	r.Register("lookup", r.lookup)
	r.Register("log", r.log)
	r.Register("eval", r.eval)
	r.Register("jq", r.jq)
	r.Register("sanitize", r.sanitize)

	return r
}

// Register adds or replaces a helper invoked as {{name args...}}.
func (r *Registry) Register(name string, fn bind.Helper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.simple[name] = fn
	r.logger.Trace("register helper", slog.String("name", name))
}

// RegisterBlock adds or replaces a helper invoked as {{#name}}...{{/name}}.
func (r *Registry) RegisterBlock(name string, fn bind.BlockHelper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.block[name] = fn
	r.logger.Trace("register block helper", slog.String("name", name))
}

// Helper implements [bind.Helpers].
func (r *Registry) Helper(name string) (bind.Helper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.simple[name]

	return fn, ok
}

// BlockHelper implements [bind.Helpers].
func (r *Registry) BlockHelper(name string) (bind.BlockHelper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.block[name]

	return fn, ok
}

// Has reports whether any helper is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, simple := r.simple[name]
	_, block := r.block[name]

	return simple || block
}

// Names returns the registered helper names in sorted order.
func (r *Registry) Names() iter.Seq[string] {
	r.mu.RLock()
	names := slices.Collect(maps.Keys(r.simple))
	names = slices.AppendSeq(names, maps.Keys(r.block))
	r.mu.RUnlock()

	slices.Sort(names)

	return slices.Values(slices.Compact(names))
}

func (r *Registry) write(w io.Writer, v any) error {
	if err := r.format(w, v); err != nil {
		return bind.ErrWrite.Wrap(err)
	}

	return nil
}
