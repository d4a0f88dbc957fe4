package bind

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/ardnew/hbind/lang/ast"
)

// executor evaluates bound trees.
type executor struct {
	cfg      *Config
	resolver *Resolver
}

func newExecutor(cfg *Config) *executor {
	return &executor{
		cfg:      cfg,
		resolver: NewResolver(cfg),
	}
}

func (x *executor) run(ctx *Context, n ast.Node) error {
	_, err := x.eval(ctx, n)

	return err
}

// eval evaluates n with ctx in scope. Nodes that only write output evaluate
// to nil.
func (x *executor) eval(ctx *Context, n ast.Node) (any, error) {
	switch t := n.(type) {
	case nil:
		return nil, nil

	case *ast.TextNode:
		if _, err := io.WriteString(ctx.Output(), t.Text); err != nil {
			return nil, ErrWrite.Wrap(err)
		}

		return nil, nil

	case *ast.LiteralNode:
		return t.Value, nil

	case *ast.PathNode:
		return nil, ErrUnbound.With(
			slog.String("kind", t.Kind().String()),
			slog.String("path", t.Path),
		)

	case *ast.StatementNode:
		return nil, ErrUnbound.With(slog.String("kind", t.Kind().String()))

	case *ast.ResolveNode:
		return x.resolver.Resolve(ctx, t.Path)

	case *ast.WriteNode:
		v, err := x.eval(ctx, t.Value)
		if err != nil {
			return nil, err
		}

		if err := x.cfg.Formatter(ctx.Output(), v); err != nil {
			return nil, ErrWrite.Wrap(err)
		}

		return nil, nil

	case *ast.BlockNode:
		if t == nil {
			return nil, nil
		}

		for _, c := range t.Nodes {
			if _, err := x.eval(ctx, c); err != nil {
				return nil, err
			}
		}

		return nil, nil

	case *ast.ConditionalNode:
		test, err := x.eval(ctx, t.Test)
		if err != nil {
			return nil, err
		}

		if Truthy(test) {
			return x.eval(ctx, t.Then)
		}

		return x.eval(ctx, t.Else)

	case *ast.UnaryNode:
		v, err := x.eval(ctx, t.Operand)
		if err != nil {
			return nil, err
		}

		switch t.Op {
		case ast.OpNot:
			return !Truthy(v), nil

		default:
			return nil, ErrUnknownNode.With(slog.String("operator", string(t.Op)))
		}

	case *ast.CallNode:
		return x.call(ctx, t)

	case *ast.HelperNode:
		return nil, x.invoke(ctx, t)

	default:
		return nil, ErrUnknownNode.With(slog.String("type", reflect.TypeOf(n).String()))
	}
}

func (x *executor) evalArgs(ctx *Context, nodes []ast.Node) ([]any, error) {
	args := make([]any, len(nodes))

	for i, n := range nodes {
		v, err := x.eval(ctx, n)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

// invoke runs a helper node through the configured helper lookup.
func (x *executor) invoke(ctx *Context, n *ast.HelperNode) error {
	args, err := x.evalArgs(ctx, n.Args)
	if err != nil {
		return err
	}

	notFound := ErrHelperNotFound.With(slog.String("name", n.Name))

	if x.cfg.Helpers == nil {
		return notFound
	}

	if !n.IsBlock() {
		fn, ok := x.cfg.Helpers.Helper(n.Name)
		if !ok {
			return notFound
		}

		return fn(ctx, args)
	}

	fn, ok := x.cfg.Helpers.BlockHelper(n.Name)
	if !ok {
		if _, simple := x.cfg.Helpers.Helper(n.Name); simple {
			return ErrNotBlockHelper.With(slog.String("name", n.Name))
		}

		return notFound
	}

	opts := BlockOptions{
		Name: n.Name,
		fn:   func(c *Context) error { return x.run(c, n.Body) },
		res:  x.resolver,
	}

	if n.Inverse != nil {
		opts.inverse = func(c *Context) error { return x.run(c, n.Inverse) }
	}

	return fn(ctx, opts, args)
}

// call invokes a method on the value of the call's target. A missing target
// or method resolves to [Undefined]; a method that returns an error fails
// the render.
func (x *executor) call(ctx *Context, n *ast.CallNode) (any, error) {
	target, err := x.eval(ctx, n.Target)
	if err != nil {
		return nil, err
	}

	if target == nil || IsUndefined(target) {
		return Undefined, nil
	}

	method := reflect.ValueOf(target).MethodByName(n.Method)
	if !method.IsValid() {
		return Undefined, nil
	}

	args, err := x.evalArgs(ctx, n.Args)
	if err != nil {
		return nil, err
	}

	fail := ErrCall.With(
		slog.String("method", n.Method),
		slog.String("receiver", reflect.TypeOf(target).String()),
	)

	in, ok := callArgs(method.Type(), args)
	if !ok {
		return nil, fail.With(slog.Int("args", len(args)))
	}

	out := method.Call(in)

	switch len(out) {
	case 0:
		return nil, nil

	case 1:
		return out[0].Interface(), nil

	default:
		if e, ok := out[len(out)-1].Interface().(error); ok && e != nil {
			return nil, fail.Wrap(e)
		}

		return out[0].Interface(), nil
	}
}

// callArgs converts args to the parameter types of a method of type mt.
func callArgs(mt reflect.Type, args []any) ([]reflect.Value, bool) {
	nin := mt.NumIn()

	if mt.IsVariadic() {
		if len(args) < nin-1 {
			return nil, false
		}
	} else if len(args) != nin {
		return nil, false
	}

	in := make([]reflect.Value, len(args))

	for i, a := range args {
		pt := mt.In(min(i, nin-1))
		if mt.IsVariadic() && i >= nin-1 {
			pt = pt.Elem()
		}

		v, ok := convertArg(a, pt)
		if !ok {
			return nil, false
		}

		in[i] = v
	}

	return in, true
}

func convertArg(a any, t reflect.Type) (reflect.Value, bool) {
	if a == nil || IsUndefined(a) {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Func, reflect.Chan:
			return reflect.Zero(t), true

		default:
			return reflect.Value{}, false
		}
	}

	v := reflect.ValueOf(a)

	switch {
	case v.Type().AssignableTo(t):
		return v, true

	case v.Type().ConvertibleTo(t) && v.Kind() != reflect.String:
		return v.Convert(t), true

	default:
		return reflect.Value{}, false
	}
}
