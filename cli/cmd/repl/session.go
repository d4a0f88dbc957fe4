package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hbind/lang"
	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/lang/helper"
	"github.com/ardnew/hbind/log"
)

// maxIndexMembers limits how many sequence indices are offered as members.
const maxIndexMembers = 64

// session is the data and scope stack a REPL evaluates against. Input
// containing a mustache is rendered as a template; anything else is
// resolved as a path expression.
type session struct {
	data    any
	scope   *bind.Context
	trail   []string
	out     *bytes.Buffer
	helpers *helper.Registry
	logger  log.Logger
}

func newSession(data any, logger log.Logger) *session {
	s := &session{
		out:     new(bytes.Buffer),
		helpers: helper.New(helper.WithLogger(logger)),
		logger:  logger,
	}

	s.reset(data)

	return s
}

// reset replaces the data and returns to the root scope.
func (s *session) reset(data any) {
	s.data = data
	s.scope = bind.NewContext(data, s.out, nil)
	s.trail = nil
}

func (s *session) eval(ctx context.Context, input string) (string, error) {
	if strings.Contains(input, "{{") {
		return s.render(ctx, input)
	}

	value, err := bind.ResolvePath(s.scope, input)
	if err != nil {
		return "", err
	}

	s.logger.TraceContext(ctx, "repl resolved",
		slog.String("path", input),
		slog.String("type", fmt.Sprintf("%T", value)),
	)

	return format(ctx, value)
}

func (s *session) render(ctx context.Context, source string) (string, error) {
	prog, err := lang.Compile(ctx, source,
		lang.WithHelpers(s.helpers),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return "", err
	}

	s.out.Reset()

	if err := prog.Execute(s.scope); err != nil {
		return "", err
	}

	return s.out.String(), nil
}

// push enters the value at path as a new scope.
func (s *session) push(path string) error {
	value, err := bind.ResolvePath(s.scope, path)
	if err != nil {
		return err
	}

	if bind.IsUndefined(value) {
		return ErrNoScope.With(slog.String("path", path))
	}

	s.scope = s.scope.Child(value, nil)
	s.trail = append(s.trail, path)

	return nil
}

// pop returns to the enclosing scope.
func (s *session) pop() error {
	if s.scope.Parent() == nil {
		return ErrAtRoot
	}

	s.scope = s.scope.Parent()
	s.trail = s.trail[:len(s.trail)-1]

	return nil
}

// where describes the scope stack, outermost first.
func (s *session) where() string {
	return strings.Join(append([]string{"root"}, s.trail...), " > ")
}

// member is a completion candidate.
type member struct {
	name   string
	method bool
}

// members implements [fuzzy.Source].
type members []member

func (l members) String(i int) string { return l[i].name }

func (l members) Len() int { return len(l) }

func (l members) names() []string {
	names := make([]string, len(l))
	for i, m := range l {
		names[i] = m.name
	}

	return names
}

// members lists the members of the value at path. An empty path lists the
// current scope along with its keywords and variables.
func (s *session) members(path string) members {
	if path != "" {
		value, err := bind.ResolvePath(s.scope, path)
		if err != nil || bind.IsUndefined(value) {
			return nil
		}

		return membersOf(value)
	}

	list := membersOf(s.scope.Value())
	list = append(list, member{name: "this"})

	if s.scope.Parent() != nil {
		list = append(list, member{name: ".."})
	}

	for name := range s.scope.Variables() {
		list = append(list, member{name: bind.VariableMarker + name})
	}

	return list
}

// helperNames lists the registered helpers.
func (s *session) helperNames() members {
	var list members

	for name := range s.helpers.Names() {
		list = append(list, member{name: name})
	}

	return list
}

// membersOf lists the names the accessor can find on v: map keys,
// sequence indices, and the exported fields and methods of records.
func membersOf(v any) members {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}

	var list members

	// Methods are found on the pointer before it is dereferenced.
	for i := range rv.NumMethod() {
		list = append(list, member{name: rv.Type().Method(i).Name, method: true})
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return list
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, fmt.Sprint(k.Interface()))
		}

		slices.Sort(keys)

		for _, k := range keys {
			list = append(list, member{name: k})
		}

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}

		for i := range min(rv.Len(), maxIndexMembers) {
			list = append(list, member{name: "[" + strconv.Itoa(i) + "]"})
		}

	case reflect.Struct:
		for _, f := range reflect.VisibleFields(rv.Type()) {
			if f.IsExported() && !f.Anonymous {
				list = append(list, member{name: f.Name})
			}
		}
	}

	return list
}

// format renders a resolved value for display.
func format(ctx context.Context, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bind.UndefinedBinding:
		return v.String(), nil
	}

	data, err := yaml.MarshalContext(ctx, value, yaml.Indent(2))
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(string(data), "\n"), nil
}
