package bind

import (
	"fmt"

	"github.com/ardnew/hbind/lang/ast"
)

// Rewrite binds the paths in the tree rooted at n and returns the bound tree.
// The input tree is not modified.
//
//   - a [ast.PathNode] becomes a [ast.ResolveNode] for the same path
//   - a [ast.StatementNode] wrapping a path becomes a [ast.WriteNode] of that
//     path; any other statement is replaced by its rewritten payload
//   - a [ast.HelperNode] keeps its name and has each argument, its body, and
//     its inverse rewritten
//   - every other node is rebuilt with rewritten children
//
// Rewriting depends only on the shape of the tree, never on data, and a
// bound tree rewrites to an identical tree.
func Rewrite(n ast.Node) ast.Node {
	switch t := n.(type) {
	case nil:
		return nil

	case *ast.TextNode:
		return t

	case *ast.LiteralNode:
		return t

	case *ast.PathNode:
		return &ast.ResolveNode{Path: t.Path}

	case *ast.StatementNode:
		if p, ok := t.Body.(*ast.PathNode); ok {
			return &ast.WriteNode{Value: Rewrite(p)}
		}

		return Rewrite(t.Body)

	case *ast.HelperNode:
		return &ast.HelperNode{
			Name:    t.Name,
			Args:    rewriteAll(t.Args),
			Body:    rewriteBlock(t.Body),
			Inverse: rewriteBlock(t.Inverse),
		}

	case *ast.BlockNode:
		if t == nil {
			return nil
		}

		return rewriteBlock(t)

	case *ast.ConditionalNode:
		return &ast.ConditionalNode{
			Test: Rewrite(t.Test),
			Then: Rewrite(t.Then),
			Else: Rewrite(t.Else),
		}

	case *ast.UnaryNode:
		return &ast.UnaryNode{
			Op:      t.Op,
			Operand: Rewrite(t.Operand),
		}

	case *ast.CallNode:
		return &ast.CallNode{
			Target: Rewrite(t.Target),
			Method: t.Method,
			Args:   rewriteAll(t.Args),
		}

	case *ast.ResolveNode:
		return t

	case *ast.WriteNode:
		return &ast.WriteNode{Value: Rewrite(t.Value)}

	default:
		// Unreachable: the node set is closed.
		panic(fmt.Sprintf("%v: %T", ErrUnknownNode, n))
	}
}

func rewriteBlock(b *ast.BlockNode) *ast.BlockNode {
	if b == nil {
		return nil
	}

	return &ast.BlockNode{Nodes: rewriteAll(b.Nodes)}
}

func rewriteAll(nodes []ast.Node) []ast.Node {
	if nodes == nil {
		return nil
	}

	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = Rewrite(n)
	}

	return out
}

// IsBound reports whether the tree rooted at n contains no unbound path or
// statement nodes.
func IsBound(n ast.Node) bool {
	bound := true

	ast.Inspect(n, func(c ast.Node) bool {
		switch c.(type) {
		case *ast.PathNode, *ast.StatementNode:
			bound = false
		}

		return bound
	})

	return bound
}
