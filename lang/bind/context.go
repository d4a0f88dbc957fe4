package bind

import (
	"io"
	"iter"
	"maps"
	"slices"
)

// Context is one scope in the runtime binding chain: the data value in scope,
// the output shared by the whole render, an optional enclosing scope, and the
// special variables (such as "index" or "key") defined by this scope only.
//
// A Context is never modified after construction. The parent link is used
// for upward path navigation and nothing else.
type Context struct {
	value     any
	output    io.Writer
	parent    *Context
	variables map[string]any
}

// NewContext returns a Context for value writing to w, nested inside parent.
// A nil parent makes the new Context a root. A nil w inherits the parent's
// output, or discards output for a root.
func NewContext(value any, w io.Writer, parent *Context) *Context {
	if w == nil {
		if parent != nil {
			w = parent.output
		} else {
			w = io.Discard
		}
	}

	return &Context{
		value:  value,
		output: w,
		parent: parent,
	}
}

// Child returns a new Context for value nested inside c, sharing c's output.
// The variables map is copied; names carry no leading '@'.
func (c *Context) Child(value any, vars map[string]any) *Context {
	return &Context{
		value:     value,
		output:    c.output,
		parent:    c,
		variables: maps.Clone(vars),
	}
}

// Value returns the data in scope.
func (c *Context) Value() any { return c.value }

// Output returns the writer shared by every context in the chain.
func (c *Context) Output() io.Writer { return c.output }

// Parent returns the enclosing context, or nil for a root.
func (c *Context) Parent() *Context { return c.parent }

// Variable returns the special variable defined by this context (not its
// ancestors) under name.
func (c *Context) Variable(name string) (any, bool) {
	v, ok := c.variables[name]

	return v, ok
}

// Variables returns an iterator over this context's special variables in
// name order.
func (c *Context) Variables() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(c.variables)) {
			if !yield(k, c.variables[k]) {
				return
			}
		}
	}
}

// Root returns the outermost context in the chain.
func (c *Context) Root() *Context {
	for c.parent != nil {
		c = c.parent
	}

	return c
}

// Depth returns the number of ancestors above c.
func (c *Context) Depth() int {
	n := 0
	for p := c.parent; p != nil; p = p.parent {
		n++
	}

	return n
}
