// Package bind turns a template syntax tree into an executable [Template].
//
// Binding happens in two passes. [Rewrite] is a static transform that
// replaces every path in the tree with a resolver invocation
// ([ast.ResolveNode]) and every bare path statement with an output write
// ([ast.WriteNode]). [Bind] then wraps the rewritten body in a prologue that
// establishes the runtime [Context] for each render.
//
// At render time, paths are resolved against a chain of contexts by the
// [Resolver], which reads each member with an [Accessor]. Members that do not
// exist resolve to [Undefined] rather than an error; only a path that climbs
// above the root context fails, with a [*CompilerError].
//
// # Paths
//
// A path is split on "/" into scope steps and each step on "." into members:
//
//	name             member of the current value
//	user.name        chained members
//	../title         member of the enclosing context's value
//	items.[2]        sequence element (brackets optional)
//	@index           special variable of the current context
//	this             the current value
//
// # Data shapes
//
// Members are read from slices and arrays by index, from values implementing
// [Dynamic], from maps by key, and from structs by exported field or
// zero-argument getter method, in that order.
package bind
