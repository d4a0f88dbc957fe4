package helper

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/ardnew/hbind/lang/bind"
)

func arity(name string, args []any, n int) error {
	if len(args) != n {
		return ErrArgs.With(
			slog.String("helper", name),
			slog.Int("want", n),
			slog.Int("got", len(args)),
		)
	}

	return nil
}

// each renders its body once per element of a sequence, or once per entry
// of a map in key order. Each iteration runs in a child context whose value
// is the element and whose variables are:
//
//	@index  position of the element, starting at 0
//	@key    map key, or the index for sequences
//	@first  true for the first element
//	@last   true for the last element
//
// The inverse section renders when there is nothing to iterate.
func (r *Registry) each(ctx *bind.Context, opts bind.BlockOptions, args []any) error {
	if err := arity(opts.Name, args, 1); err != nil {
		return err
	}

	keys, values := entries(args[0])
	if len(values) == 0 {
		return opts.Inverse(ctx)
	}

	last := len(values) - 1

	for i, v := range values {
		vars := map[string]any{
			"index": i,
			"key":   keys[i],
			"first": i == 0,
			"last":  i == last,
		}

		if err := opts.Fn(ctx.Child(v, vars)); err != nil {
			return err
		}
	}

	return nil
}

// entries flattens v into parallel key and value slices. Values that cannot
// be iterated yield nothing.
func entries(v any) (keys []any, values []any) {
	switch t := v.(type) {
	case nil, bind.UndefinedBinding, string:
		return nil, nil

	case []any:
		return indexKeys(len(t)), t

	case iter.Seq[any]:
		values = slices.Collect(t)

		return indexKeys(len(values)), values

	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			keys = append(keys, k)
			values = append(values, t[k])
		}

		return keys, values
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values = make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}

		return indexKeys(len(values)), values

	case reflect.Map:
		mk := rv.MapKeys()
		slices.SortFunc(mk, compareKeys)

		for _, k := range mk {
			keys = append(keys, k.Interface())
			values = append(values, rv.MapIndex(k).Interface())
		}

		return keys, values

	default:
		return nil, nil
	}
}

func indexKeys(n int) []any {
	keys := make([]any, n)
	for i := range keys {
		keys[i] = i
	}

	return keys
}

// compareKeys orders map keys: numerically when both are integers, and by
// their printed form otherwise.
func compareKeys(a, b reflect.Value) int {
	if ai, ok := intKey(a); ok {
		if bi, ok := intKey(b); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			default:
				return 0
			}
		}
	}

	as, bs := fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface())

	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func intKey(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := v.Uint(); u <= 1<<63-1 {
			return int64(u), true
		}
	}

	return 0, false
}

// with renders its body in a child context of its argument, or the inverse
// section when the argument is not truthy.
func (r *Registry) with(ctx *bind.Context, opts bind.BlockOptions, args []any) error {
	if err := arity(opts.Name, args, 1); err != nil {
		return err
	}

	if !bind.Truthy(args[0]) {
		return opts.Inverse(ctx)
	}

	return opts.Fn(ctx.Child(args[0], nil))
}

// lookup prints the member of its first argument named by the second.
// Integer keys select sequence elements.
func (r *Registry) lookup(ctx *bind.Context, args []any) error {
	if err := arity("lookup", args, 2); err != nil {
		return err
	}

	var key string

	switch k := args[1].(type) {
	case string:
		key = k

	case int:
		key = strconv.Itoa(k)

	case int64:
		key = strconv.FormatInt(k, 10)

	case float64:
		key = strconv.FormatFloat(k, 'f', -1, 64)

	default:
		return ErrArgType.With(
			slog.String("helper", "lookup"),
			slog.String("type", fmt.Sprintf("%T", args[1])),
		)
	}

	v := bind.NewAccessor(r.resolve).Access(args[0], key)

	return r.write(ctx.Output(), v)
}

// log writes its arguments to the registry's logger at info level. It
// produces no template output.
func (r *Registry) log(ctx *bind.Context, args []any) error {
	attrs := make([]slog.Attr, 0, len(args)+1)
	attrs = append(attrs, slog.Int("depth", ctx.Depth()))

	for i, a := range args {
		if bind.IsUndefined(a) {
			a = a.(fmt.Stringer).String()
		}

		attrs = append(attrs, slog.Any("arg"+strconv.Itoa(i), a))
	}

	r.logger.Info("template log", attrs...)

	return nil
}
