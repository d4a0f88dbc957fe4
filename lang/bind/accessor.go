package bind

import (
	"iter"
	"reflect"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Dynamic is implemented by values whose members are only known at runtime.
// Member returns an error when name does not exist.
type Dynamic interface {
	Member(name string) (any, error)
}

// indexPattern matches a sequence index, optionally bracketed: "3" or "[3]".
var indexPattern = regexp.MustCompile(`^\[?(\d+)\]?$`)

// Accessor reads a single named member, index, or key from an arbitrary
// value. It never fails: anything it cannot find resolves to [Undefined].
type Accessor struct {
	resolve NameResolver
}

// NewAccessor returns an Accessor that passes member names through resolve
// before lookup. A nil resolve leaves names unchanged.
func NewAccessor(resolve NameResolver) *Accessor {
	return &Accessor{resolve: resolve}
}

// Access returns the member of instance named member, trying in order:
//
//  1. sequence index, when instance is a sequence and member is an index
//  2. the [Dynamic] member protocol
//  3. map key lookup
//  4. exported struct field or zero-argument getter method
//
// Rules 2–4 use the name after the name-resolution hook is applied.
func (a *Accessor) Access(instance any, member string) (result any) {
	defer func() {
		if r := recover(); r != nil {
			result = Undefined
		}
	}()

	if instance == nil || IsUndefined(instance) {
		return Undefined
	}

	if v, ok := accessIndex(instance, member); ok {
		return v
	}

	name := a.resolveName(member)

	if d, ok := instance.(Dynamic); ok {
		return accessDynamic(d, name)
	}

	if v, ok := accessMap(instance, name); ok {
		return v
	}

	return accessRecord(instance, name)
}

func (a *Accessor) resolveName(member string) string {
	if a == nil || a.resolve == nil {
		return member
	}

	return a.resolve(member)
}

// accessIndex applies when instance is a sequence and member is an index.
// The boolean result is false when the rule does not apply.
func accessIndex(instance any, member string) (any, bool) {
	seq, ok := sequenceOf(instance)
	if !ok {
		return nil, false
	}

	m := indexPattern.FindStringSubmatch(member)
	if m == nil {
		return nil, false
	}

	i, err := strconv.Atoi(m[1])
	if err != nil {
		return Undefined, true
	}

	return seq(i), true
}

// sequenceOf returns an element accessor when instance is a slice, array, or
// iterator sequence. Strings and byte slices are not sequences.
func sequenceOf(instance any) (func(int) any, bool) {
	switch s := instance.(type) {
	case []any:
		return func(i int) any {
			if i >= len(s) {
				return Undefined
			}

			return s[i]
		}, true

	case iter.Seq[any]:
		return elementAt(s), true

	case func(func(any) bool):
		return elementAt(s), true

	case string, []byte:
		return nil, false
	}

	rv := indirect(reflect.ValueOf(instance))

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(i int) any {
			if i >= rv.Len() {
				return Undefined
			}

			return rv.Index(i).Interface()
		}, true

	default:
		return nil, false
	}
}

func elementAt(seq iter.Seq[any]) func(int) any {
	return func(i int) any {
		n := 0
		for v := range seq {
			if n == i {
				return v
			}

			n++
		}

		return Undefined
	}
}

// accessDynamic asks a [Dynamic] value for its member.
func accessDynamic(d Dynamic, name string) (result any) {
	defer func() {
		if r := recover(); r != nil {
			result = Undefined
		}
	}()

	v, err := d.Member(name)
	if err != nil {
		return Undefined
	}

	return v
}

// accessMap applies when instance is a map. A missing key, or a name that
// cannot be converted to the map's key type, resolves to [Undefined].
func accessMap(instance any, name string) (any, bool) {
	if m, ok := instance.(map[string]any); ok {
		v, found := m[name]
		if !found {
			return Undefined, true
		}

		return v, true
	}

	rv := indirect(reflect.ValueOf(instance))
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	key, ok := mapKey(rv.Type().Key(), name)
	if !ok {
		return Undefined, true
	}

	v := rv.MapIndex(key)
	if !v.IsValid() {
		return Undefined, true
	}

	return v.Interface(), true
}

// mapKey converts name to a value of key type t.
func mapKey(t reflect.Type, name string) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(t), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(t), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		n, err := strconv.ParseUint(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(t), true

	case reflect.Interface:
		if reflect.TypeOf(name).Implements(t) {
			return reflect.ValueOf(name), true
		}
	}

	return reflect.Value{}, false
}

// accessRecord looks up a readable member of a struct (or pointer to one):
// an exported field, or an exported method taking no arguments and returning
// one value or a value and an error. The member must be unique; a name that
// matches both a field and a method, or matches fields of several embedded
// structs at the same depth, resolves to [Undefined].
func accessRecord(instance any, name string) any {
	if !isExported(name) {
		return Undefined
	}

	rv := reflect.ValueOf(instance)

	// Pointer-receiver methods are only visible when instance is a pointer.
	method := rv.MethodByName(name)
	field, hasField := structField(rv, name)

	switch {
	case hasField && method.IsValid():
		return Undefined

	case hasField:
		return field

	case method.IsValid():
		return callGetter(method)

	default:
		return Undefined
	}
}

func structField(rv reflect.Value, name string) (any, bool) {
	sv := indirect(rv)
	if sv.Kind() != reflect.Struct {
		return nil, false
	}

	sf, ok := sv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, false
	}

	fv, err := sv.FieldByIndexErr(sf.Index)
	if err != nil {
		// Promoted through a nil embedded pointer.
		return Undefined, true
	}

	return fv.Interface(), true
}

var errorType = reflect.TypeFor[error]()

func callGetter(method reflect.Value) any {
	mt := method.Type()
	if mt.NumIn() != 0 {
		return Undefined
	}

	switch mt.NumOut() {
	case 1:
		return method.Call(nil)[0].Interface()

	case 2:
		if !mt.Out(1).Implements(errorType) {
			return Undefined
		}

		out := method.Call(nil)
		if !out[1].IsNil() {
			return Undefined
		}

		return out[0].Interface()

	default:
		return Undefined
	}
}

// indirect dereferences pointers and interfaces until it reaches a concrete
// value. A nil pointer yields the zero Value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() &&
		(rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}

		rv = rv.Elem()
	}

	return rv
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return unicode.IsUpper(r)
}

// ExportedName is a [NameResolver] that capitalizes the first letter of a
// member name so that template paths like "user.name" reach exported Go
// fields like User.Name.
func ExportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
