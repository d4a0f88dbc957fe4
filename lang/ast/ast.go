package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a template syntax tree node.
//
// The set of node kinds is closed: every implementation is declared in this
// package, and passes over the tree switch exhaustively on the concrete type.
type Node interface {
	Kind() Kind
	node()
}

// Kind identifies the concrete type of a [Node].
type Kind int

const (
	// KindText is literal template text copied verbatim to the output.
	KindText Kind = iota

	// KindLiteral is a constant string, number, or boolean argument.
	KindLiteral

	// KindPath is an unbound path reference such as "user.name" or "../title".
	KindPath

	// KindStatement is a bare mustache statement wrapping a payload node.
	KindStatement

	// KindHelper is a named helper invocation with arguments.
	KindHelper

	// KindBlock is an ordered sequence of nodes.
	KindBlock

	// KindConditional selects one of two branches from a test.
	KindConditional

	// KindUnary applies a unary operator to one operand.
	KindUnary

	// KindCall invokes a method on a target value.
	KindCall

	// KindResolve is a bound path: a path-resolver invocation.
	KindResolve

	// KindWrite writes a value to the active context's output.
	KindWrite
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"

	case KindLiteral:
		return "Literal"

	case KindPath:
		return "Path"

	case KindStatement:
		return "Statement"

	case KindHelper:
		return "Helper"

	case KindBlock:
		return "Block"

	case KindConditional:
		return "Conditional"

	case KindUnary:
		return "Unary"

	case KindCall:
		return "Call"

	case KindResolve:
		return "Resolve"

	case KindWrite:
		return "Write"

	default:
		return "Unknown"
	}
}

// TextNode is literal template text.
type TextNode struct {
	Text string
}

// LiteralNode is a constant argument value (string, int64, float64, bool).
type LiteralNode struct {
	Value any
}

// PathNode references data through a path expression.
type PathNode struct {
	Path string
}

// StatementNode is a bare statement. When its payload is a path, the
// statement prints the resolved value.
type StatementNode struct {
	Body Node
}

// HelperNode invokes a named helper. Block helpers carry a body and an
// optional inverse (the {{else}} section).
type HelperNode struct {
	Name    string
	Args    []Node
	Body    *BlockNode
	Inverse *BlockNode
}

// IsBlock reports whether the helper was opened as a block ({{#name}}).
func (n *HelperNode) IsBlock() bool { return n.Body != nil }

// BlockNode is an ordered sequence of nodes.
type BlockNode struct {
	Nodes []Node
}

// ConditionalNode evaluates Then when Test is truthy, Else otherwise.
// Else may be nil.
type ConditionalNode struct {
	Test Node
	Then Node
	Else Node
}

// Operator is a unary operator.
type Operator string

// OpNot negates the truthiness of its operand.
const OpNot Operator = "not"

// UnaryNode applies Op to Operand.
type UnaryNode struct {
	Op      Operator
	Operand Node
}

// CallNode calls method Method on the value of Target with Args.
type CallNode struct {
	Target Node
	Method string
	Args   []Node
}

// ResolveNode resolves Path against the active binding context at render
// time. It is produced by binding a [PathNode].
type ResolveNode struct {
	Path string
}

// WriteNode writes the value of Value to the active context's output.
type WriteNode struct {
	Value Node
}

func (*TextNode) Kind() Kind        { return KindText }
func (*LiteralNode) Kind() Kind     { return KindLiteral }
func (*PathNode) Kind() Kind        { return KindPath }
func (*StatementNode) Kind() Kind   { return KindStatement }
func (*HelperNode) Kind() Kind      { return KindHelper }
func (*BlockNode) Kind() Kind       { return KindBlock }
func (*ConditionalNode) Kind() Kind { return KindConditional }
func (*UnaryNode) Kind() Kind       { return KindUnary }
func (*CallNode) Kind() Kind        { return KindCall }
func (*ResolveNode) Kind() Kind     { return KindResolve }
func (*WriteNode) Kind() Kind       { return KindWrite }

func (*TextNode) node()        {}
func (*LiteralNode) node()     {}
func (*PathNode) node()        {}
func (*StatementNode) node()   {}
func (*HelperNode) node()      {}
func (*BlockNode) node()       {}
func (*ConditionalNode) node() {}
func (*UnaryNode) node()       {}
func (*CallNode) node()        {}
func (*ResolveNode) node()     {}
func (*WriteNode) node()       {}

// Block returns a [BlockNode] containing nodes.
func Block(nodes ...Node) *BlockNode { return &BlockNode{Nodes: nodes} }

// Children returns the direct children of n in evaluation order.
// Nil children (an absent Else branch, for example) are omitted.
func Children(n Node) []Node {
	var kids []Node

	add := func(c ...Node) {
		for _, k := range c {
			if k != nil && !isNilBlock(k) {
				kids = append(kids, k)
			}
		}
	}

	switch t := n.(type) {
	case *StatementNode:
		add(t.Body)

	case *HelperNode:
		add(t.Args...)

		if t.Body != nil {
			add(t.Body)
		}

		if t.Inverse != nil {
			add(t.Inverse)
		}

	case *BlockNode:
		add(t.Nodes...)

	case *ConditionalNode:
		add(t.Test, t.Then, t.Else)

	case *UnaryNode:
		add(t.Operand)

	case *CallNode:
		add(t.Target)
		add(t.Args...)

	case *WriteNode:
		add(t.Value)
	}

	return kids
}

func isNilBlock(n Node) bool {
	b, ok := n.(*BlockNode)

	return ok && b == nil
}

// Inspect traverses the tree rooted at n in depth-first order. It calls
// f(node) for each node; if f returns false, Inspect skips that node's
// children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilBlock(n) || !f(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Count returns the number of nodes of kind k in the tree rooted at n.
func Count(n Node, k Kind) int {
	count := 0

	Inspect(n, func(c Node) bool {
		if c.Kind() == k {
			count++
		}

		return true
	})

	return count
}

// Print writes an indented representation of the tree rooted at n to w.
func Print(w io.Writer, n Node) {
	printIndent(w, n, 0)
}

func printIndent(w io.Writer, n Node, indent int) {
	if n == nil || isNilBlock(n) {
		return
	}

	prefix := strings.Repeat("  ", indent)

	var detail string

	switch t := n.(type) {
	case *TextNode:
		detail = strconv.Quote(t.Text)

	case *LiteralNode:
		detail = fmt.Sprintf("%#v", t.Value)

	case *PathNode:
		detail = t.Path

	case *ResolveNode:
		detail = t.Path

	case *HelperNode:
		detail = t.Name

	case *UnaryNode:
		detail = string(t.Op)

	case *CallNode:
		detail = t.Method
	}

	if detail != "" {
		fmt.Fprintf(w, "%s%s: %s\n", prefix, n.Kind(), detail)
	} else {
		fmt.Fprintf(w, "%s%s\n", prefix, n.Kind())
	}

	for _, c := range Children(n) {
		printIndent(w, c, indent+1)
	}
}
