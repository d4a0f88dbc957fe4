package helper

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/log"
)

// resolveFunc is the environment function that patched identifiers call.
const resolveFunc = "__resolve"

// pathPatcher rewrites the free identifiers of an expression into path
// lookups against the binding context, so that "price * qty" evaluates as
// resolve("price") * resolve("qty") and "user.name" as resolve("user.name").
//
// The tree is visited bottom-up: identifiers are patched first, then member
// accesses on a patched lookup are folded into a single dotted path, and
// finally lookups used as a call target are restored to plain identifiers.
type pathPatcher struct {
	locals map[string]bool // names bound by let
	logger log.Logger
}

// Visit implements ast.Visitor.
func (p *pathPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if p.bound(n.Value) {
			return
		}

		ast.Patch(node, lookup(n.Value))
		p.logger.Trace("patch identifier", slog.String("name", n.Value))

	case *ast.MemberNode:
		base, ok := lookupPath(n.Node)
		if !ok || n.Method {
			return
		}

		prop, ok := n.Property.(*ast.StringNode)
		if !ok || strings.ContainsAny(prop.Value, bind.MemberSeparator+bind.ScopeSeparator) {
			return
		}

		path := base + bind.MemberSeparator + prop.Value

		ast.Patch(node, lookup(path))
		p.logger.Trace("patch member", slog.String("path", path))

	case *ast.CallNode:
		name, ok := lookupPath(n.Callee)
		if !ok || strings.Contains(name, bind.MemberSeparator) {
			return
		}

		ast.Patch(&n.Callee, &ast.IdentifierNode{Value: name})
	}
}

func (p *pathPatcher) bound(name string) bool {
	if p.locals[name] || strings.HasPrefix(name, "$") || name == resolveFunc {
		return true
	}

	_, ok := builtin.Index[name]

	return ok
}

func lookup(path string) *ast.CallNode {
	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: resolveFunc},
		Arguments: []ast.Node{&ast.StringNode{Value: path}},
	}
}

// lookupPath returns the path of a node created by lookup.
func lookupPath(n ast.Node) (string, bool) {
	call, ok := n.(*ast.CallNode)
	if !ok || len(call.Arguments) != 1 {
		return "", false
	}

	if id, ok := call.Callee.(*ast.IdentifierNode); !ok || id.Value != resolveFunc {
		return "", false
	}

	s, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		return "", false
	}

	return s.Value, true
}

// letNames collects the variables declared with let in source.
type letNames map[string]bool

func (l letNames) Visit(node *ast.Node) {
	if d, ok := (*node).(*ast.VariableDeclaratorNode); ok {
		l[d.Name] = true
	}
}

func (r *Registry) compile(source string) (*vm.Program, error) {
	if p, ok := r.programs.Load(source); ok {
		prog, _ := p.(*vm.Program)

		return prog, nil
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("expr", source))
	}

	locals := letNames{}
	ast.Walk(&tree.Node, locals)

	prog, err := expr.Compile(source,
		expr.Env(env(nil)),
		expr.Patch(&pathPatcher{locals: locals, logger: r.logger}),
	)
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("expr", source))
	}

	r.programs.Store(source, prog)

	return prog, nil
}

// env returns the expression environment for ctx. Paths that do not
// resolve evaluate to nil.
func env(res func(string) (any, error)) map[string]any {
	return map[string]any{
		resolveFunc: func(path string) (any, error) {
			if res == nil {
				return nil, nil
			}

			v, err := res(path)
			if err != nil || bind.IsUndefined(v) {
				return nil, err
			}

			return v, nil
		},
	}
}

// Eval evaluates an expr-lang expression whose free identifiers are paths
// resolved against ctx.
func (r *Registry) Eval(ctx *bind.Context, source string) (any, error) {
	prog, err := r.compile(source)
	if err != nil {
		return nil, err
	}

	res := bind.NewResolver(bind.NewConfig(
		bind.WithNameResolver(r.resolve),
		bind.WithLogger(r.logger),
	))

	out, err := expr.Run(prog, env(func(path string) (any, error) {
		return res.Resolve(ctx, path)
	}))
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("expr", source))
	}

	return out, nil
}

func (r *Registry) eval(ctx *bind.Context, args []any) error {
	if err := arity("eval", args, 1); err != nil {
		return err
	}

	source, ok := args[0].(string)
	if !ok {
		return ErrArgType.With(slog.String("helper", "eval"))
	}

	v, err := r.Eval(ctx, source)
	if err != nil {
		return err
	}

	return r.write(ctx.Output(), v)
}
