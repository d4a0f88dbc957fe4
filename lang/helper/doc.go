// Package helper provides the helper registry used to execute helper nodes,
// and the built-in helpers every template can call.
//
// Block helpers (each, with) receive a [bind.BlockOptions] to render their
// body in child contexts. Simple helpers write directly to the output of the
// context they are called with.
//
// The eval helper evaluates expr-lang expressions. Free identifiers in the
// expression are resolved as paths against the calling context:
//
//	{{eval "price * qty"}}
//	{{eval "upper(user.name)"}}
//
// The jq helper runs a jq query over any JSON-representable value:
//
//	{{jq users ".[].name"}}
package helper
