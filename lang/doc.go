// Package lang compiles Handlebars-style templates.
//
// [Compile] parses a template into a syntax tree, rewrites every path into
// a resolution against the binding context (see package bind), and binds
// the result into a [Program]:
//
//	prog, err := lang.Compile(ctx, "Hello, {{user.name}}!")
//	if err != nil {
//		return err
//	}
//
//	err = prog.Render(os.Stdout, data)
//
// Compilation depends only on the template source and the names of the
// registered helpers, so compiled trees are cached and shared. A Program
// holds no render state and may be used from multiple goroutines.
package lang
