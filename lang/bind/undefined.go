package bind

import "reflect"

// UndefinedBinding is the type of [Undefined].
type UndefinedBinding struct{}

// String returns a placeholder for diagnostics. Rendering an undefined value
// is the formatter's concern, not the resolver's.
func (UndefinedBinding) String() string { return "<undefined>" }

// Undefined is the result of a lookup that found nothing. It is distinct from
// nil, which is a value that was found and happens to be empty.
var Undefined = UndefinedBinding{}

// IsUndefined reports whether v is [Undefined].
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedBinding)

	return ok
}

// Truthy reports whether v counts as true in a conditional: nil, [Undefined],
// false, numeric zero, the empty string, and empty sequences or maps are
// false; everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil, UndefinedBinding:
		return false

	case bool:
		return t

	case string:
		return t != ""
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0

	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0

	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0

	default:
		return true
	}
}
