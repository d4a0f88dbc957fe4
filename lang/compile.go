package lang

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/hbind/lang/ast"
	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/lang/helper"
	"github.com/ardnew/hbind/log"
)

// Program is a compiled template. It is immutable and may be rendered
// concurrently.
type Program struct {
	source string
	tree   ast.Node
	tmpl   bind.Template
	cfg    *bind.Config
}

// Option configures how a template is compiled.
type Option func(*options)

type options struct {
	logger  log.Logger
	helpers *helper.Registry
	resolve bind.NameResolver
	format  bind.Formatter
	cache   bool
}

// WithLogger sets the logger used to trace compilation and rendering.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHelpers sets the helpers available to the template. By default a new
// registry of the built-in helpers is used.
func WithHelpers(r *helper.Registry) Option {
	return func(o *options) { o.helpers = r }
}

// WithNameResolver sets the hook that maps path member names to the names
// looked up on data, such as [bind.ExportedName].
func WithNameResolver(fn bind.NameResolver) Option {
	return func(o *options) { o.resolve = fn }
}

// WithFormatter sets how printed values are written.
func WithFormatter(fn bind.Formatter) Option {
	return func(o *options) { o.format = fn }
}

// WithCache controls whether parsed templates are reused across calls
// to [Compile]. The cache is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}

func makeOptions(opts ...Option) options {
	o := options{cache: true}

	for _, opt := range opts {
		opt(&o)
	}

	if o.format == nil {
		o.format = bind.DefaultFormatter
	}

	if o.helpers == nil {
		o.helpers = helper.New(
			helper.WithLogger(o.logger),
			helper.WithNameResolver(o.resolve),
			helper.WithFormatter(o.format),
		)
	}

	return o
}

// Compile parses source, binds its paths, and returns the executable
// program.
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	var (
		tree ast.Node
		err  error
	)

	if o.cache {
		tree, err = compileCached(ctx, source, o)
	} else {
		tree, err = compileTree(ctx, source, o)
	}

	if err != nil {
		return nil, err
	}

	cfg := bind.NewConfig(
		bind.WithNameResolver(o.resolve),
		bind.WithHelpers(o.helpers),
		bind.WithFormatter(o.format),
		bind.WithLogger(o.logger),
	)

	return &Program{
		source: source,
		tree:   tree,
		tmpl:   bind.Bind(tree, cfg, nil),
		cfg:    cfg,
	}, nil
}

// compileTree parses source and rewrites the result into a bound tree.
func compileTree(ctx context.Context, source string, o options) (ast.Node, error) {
	isHelper := func(name string) bool {
		_, ok := o.helpers.Helper(name)

		return ok
	}

	parsed, err := Parse(source, isHelper)
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	tree := bind.Rewrite(parsed)

	o.logger.TraceContext(ctx, "compiled template",
		slog.Int("source_bytes", len(source)),
		slog.Int("paths", ast.Count(tree, ast.KindResolve)),
		slog.Int("helpers", ast.Count(tree, ast.KindHelper)),
	)

	return tree, nil
}

// Render renders the program with data as the root context value.
func (p *Program) Render(w io.Writer, data any) error {
	return p.tmpl(w, data)
}

// RenderString renders the program with data and returns the output.
func (p *Program) RenderString(data any) (string, error) {
	var buf bytes.Buffer

	if err := p.tmpl(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Execute renders the program inside an existing context, writing to that
// context's output. Paths resolve against ctx and may reach its parents.
func (p *Program) Execute(ctx *bind.Context) error {
	if ctx == nil {
		return bind.ErrNilContext
	}

	return p.tmpl(ctx.Output(), ctx)
}

// Tree returns the bound syntax tree. It must not be modified.
func (p *Program) Tree() ast.Node { return p.tree }

// Source returns the template source.
func (p *Program) Source() string { return p.source }

// Config returns the configuration the program was bound with.
func (p *Program) Config() *bind.Config { return p.cfg }
