// Package ast defines the template syntax tree consumed and produced by the
// path binder.
//
// The node set is closed. Source templates use [TextNode], [LiteralNode],
// [PathNode], [StatementNode], [HelperNode], and the compound nodes
// [BlockNode], [ConditionalNode], [UnaryNode], and [CallNode]. Binding
// replaces every [PathNode] with a [ResolveNode] and every printing
// [StatementNode] with a [WriteNode]; a bound tree contains neither unbound
// kind.
package ast
