package repl

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/hbind/lang/bind"
)

// helperParams names the arguments of the built-in helpers.
//
//nolint:gochecknoglobals
var helperParams = map[string][]string{
	"each":     {"items"},
	"with":     {"value"},
	"lookup":   {"value", "key"},
	"log":      {"...values"},
	"eval":     {"expression"},
	"jq":       {"value", "query"},
	"sanitize": {"html"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// call is an invocation the cursor is inside of: either the argument list
// of a method call "target.Method(" or the arguments of a helper mustache
// "{{name ".
type call struct {
	name     string // method path or helper name
	argIndex int    // current argument index (0-based)
	method   bool
}

// detectCall finds the innermost call enclosing the cursor. Method calls
// take precedence over the helper mustache containing them.
func detectCall(input string, cursor int) (call, bool) {
	cursor = min(max(cursor, 0), len(input))

	if c, ok := detectMethodCall(input, cursor); ok {
		return c, true
	}

	return detectHelperCall(input, cursor)
}

// detectMethodCall scans backward from cursor for an unmatched "(" and
// returns the path expression naming the method before it.
func detectMethodCall(input string, cursor int) (call, bool) {
	depth := 0
	open := -1

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		case '{', '}':
			break scan
		}
	}

	if open < 0 {
		return call{}, false
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) && !isPathSeparator(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return call{}, false
	}

	// Arguments are separated by commas or whitespace.
	args := strings.FieldsFunc(input[open+1:cursor], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	index := len(args)
	if index > 0 && !endsWithSeparator(input[:cursor]) {
		index--
	}

	return call{name: name, argIndex: index, method: true}, true
}

// detectHelperCall reports the helper named by the first word of the
// unclosed mustache before cursor, once the cursor has moved past it.
func detectHelperCall(input string, cursor int) (call, bool) {
	before := input[:cursor]

	open := strings.LastIndex(before, "{{")
	if open < 0 || strings.LastIndex(before, "}}") > open {
		return call{}, false
	}

	body := strings.TrimLeft(before[open+2:], "{~#^")
	fields := strings.Fields(body)

	trailing := endsWithSeparator(body)
	if len(fields) == 0 || (len(fields) == 1 && !trailing) {
		return call{}, false
	}

	index := len(fields) - 1
	if !trailing {
		index--
	}

	return call{name: fields[0], argIndex: index}, true
}

func endsWithSeparator(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)

	return r == ' ' || r == '\t' || r == ','
}

// signature returns the parameter names of c. Helpers are looked up by
// name. Methods are found on the value their target path resolves to in
// scope, and are named by parameter type.
func (s *session) signature(c call) ([]string, bool) {
	if !c.method {
		if params, ok := helperParams[c.name]; ok {
			return params, true
		}

		if s.helpers.Has(c.name) {
			return []string{"...args"}, true
		}

		return nil, false
	}

	target, name := "this", c.name
	if i := strings.LastIndexAny(c.name, bind.MemberSeparator+bind.ScopeSeparator); i >= 0 {
		target, name = c.name[:i], c.name[i+1:]
	}

	value, err := bind.ResolvePath(s.scope, target)
	if err != nil || bind.IsUndefined(value) {
		return nil, false
	}

	method := reflect.ValueOf(value).MethodByName(name)
	if !method.IsValid() {
		return nil, false
	}

	return methodParams(method.Type()), true
}

// methodParams names each parameter of a function type by its kind.
func methodParams(t reflect.Type) []string {
	params := make([]string, t.NumIn())

	for i := range params {
		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + typeName(t.In(i).Elem())
		} else {
			params[i] = typeName(t.In(i))
		}
	}

	return params
}

// typeName converts a reflect.Type to a readable parameter name.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "map"
	case reflect.Func:
		return "func"
	case reflect.Pointer:
		return typeName(t.Elem())
	}

	if t.Name() != "" {
		return t.Name()
	}

	return "arg"
}

// renderSignatureHint renders a call with its current parameter
// highlighted. Methods use call syntax; helpers use mustache syntax.
func renderSignatureHint(c call, params []string) string {
	var b strings.Builder

	open, sep, end := " ", " ", ""
	if c.method {
		open, sep, end = "(", ", ", ")"
	}

	b.WriteString(signatureNameStyle.Render(c.name))
	b.WriteString(signatureStyle.Render(open))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(sep))
		}

		variadic := strings.HasPrefix(param, "...")

		if c.argIndex == i || (variadic && c.argIndex >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(end))

	return b.String()
}
