package bind

import (
	"errors"
	"slices"
	"testing"

	fuzz "github.com/google/gofuzz"
)

type person struct {
	Name   string
	Age    int
	Parent *person
	secret string
}

func (p person) Greeting() string { return "hello, " + p.Name }

func (p *person) Initial() (string, error) {
	if p.Name == "" {
		return "", errors.New("no name")
	}

	return p.Name[:1], nil
}

func (p person) Add(n int) int { return p.Age + n }

type base struct {
	ID   int
	Kind string
}

type other struct {
	Kind string
}

type derived struct {
	base
	*other
	Label string
}

type wrapped struct {
	*base
}

type counter struct {
	Count int
}

// ambiguous has a promoted field and a method that are both named Count.
type ambiguous struct {
	counter
}

func (ambiguous) Count() int { return 1 }

type bag map[string]any

func (b bag) Member(name string) (any, error) {
	v, ok := b[name]
	if !ok {
		return nil, errors.New("no member " + name)
	}

	return v, nil
}

type panicky struct{}

func (panicky) Member(string) (any, error) { panic("boom") }

func TestAccessSequence(t *testing.T) {
	seq := []any{"a", "b", nil}
	arr := [3]int{10, 20, 30}
	it := slices.Values([]any{"x", "y"})

	tests := []struct {
		name     string
		instance any
		member   string
		want     any
	}{
		{"index", seq, "1", "b"},
		{"bracketed", seq, "[1]", "b"},
		{"nil_element", seq, "2", nil},
		{"out_of_range", seq, "3", Undefined},
		{"huge_index", seq, "99999999999999999999999", Undefined},
		{"array", arr, "2", 30},
		{"array_pointer", &arr, "[0]", 10},
		{"typed_slice", []string{"p", "q"}, "1", "q"},
		{"iterator", it, "1", "y"},
		{"iterator_out_of_range", it, "2", Undefined},
		{"not_an_index", seq, "first", Undefined},
		{"negative", seq, "-1", Undefined},
		{"string_not_sequence", "abc", "0", Undefined},
	}

	a := NewAccessor(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Access(tt.instance, tt.member)
			if got != tt.want {
				t.Errorf("Access(%v, %q) = %v, want %v",
					tt.instance, tt.member, got, tt.want)
			}
		})
	}
}

func TestAccessMap(t *testing.T) {
	tests := []struct {
		name     string
		instance any
		member   string
		want     any
	}{
		{"present", map[string]any{"k": 1}, "k", 1},
		{"present_nil", map[string]any{"k": nil}, "k", nil},
		{"missing", map[string]any{"k": 1}, "j", Undefined},
		{"typed", map[string]int{"k": 7}, "k", 7},
		{"typed_missing", map[string]int{"k": 7}, "j", Undefined},
		{"named_key", map[keyName]string{"k": "v"}, "k", "v"},
		{"int_key", map[int]string{3: "three"}, "3", "three"},
		{"int_key_unparsable", map[int]string{3: "three"}, "x", Undefined},
		{"uint_key", map[uint8]string{3: "three"}, "3", "three"},
		{"any_key", map[any]string{"k": "v"}, "k", "v"},
		{"pointer", &map[string]any{"k": "v"}, "k", "v"},
		{"nil_map", map[string]any(nil), "k", Undefined},
	}

	a := NewAccessor(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Access(tt.instance, tt.member)
			if got != tt.want {
				t.Errorf("Access(%v, %q) = %v, want %v",
					tt.instance, tt.member, got, tt.want)
			}
		})
	}
}

type keyName string

func TestAccessRecord(t *testing.T) {
	ada := person{Name: "Ada", Age: 36, secret: "x"}
	grace := &person{Name: "Grace", Parent: &ada}
	d := derived{base: base{ID: 9, Kind: "base"}, Label: "L"}

	tests := []struct {
		name     string
		instance any
		member   string
		want     any
	}{
		{"field", ada, "Name", "Ada"},
		{"pointer_field", grace, "Name", "Grace"},
		{"nested_pointer", grace, "Parent", &ada},
		{"unexported", ada, "secret", Undefined},
		{"missing", ada, "Missing", Undefined},
		{"getter", ada, "Greeting", "hello, Ada"},
		{"getter_through_pointer", grace, "Greeting", "hello, Grace"},
		{"pointer_getter_with_error", grace, "Initial", "G"},
		{"pointer_getter_on_value", ada, "Initial", Undefined},
		{"getter_error", &person{}, "Initial", Undefined},
		{"method_with_args", ada, "Add", Undefined},
		{"promoted", d, "ID", 9},
		{"own_field", d, "Label", "L"},
		{"zero_embedded", derived{}, "ID", 0},
		{"nil_embedded_pointer", wrapped{}, "ID", Undefined},
		{"embedded_pointer", wrapped{&base{ID: 4}}, "ID", 4},
		{"field_and_method", ambiguous{counter{Count: 3}}, "Count", Undefined},
		{"nil_pointer", (*person)(nil), "Name", Undefined},
	}

	a := NewAccessor(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Access(tt.instance, tt.member)
			if got != tt.want {
				t.Errorf("Access(%v, %q) = %v, want %v",
					tt.instance, tt.member, got, tt.want)
			}
		})
	}
}

func TestAccessAmbiguousEmbedded(t *testing.T) {
	// base.Kind and other.Kind are promoted from the same depth.
	d := derived{base: base{Kind: "a"}, other: &other{Kind: "b"}}

	if got := NewAccessor(nil).Access(d, "Kind"); got != Undefined {
		t.Errorf("expected Undefined for ambiguous field, got %v", got)
	}
}

func TestAccessDynamic(t *testing.T) {
	b := bag{"name": "dyn", "nil": nil}
	a := NewAccessor(nil)

	if got := a.Access(b, "name"); got != "dyn" {
		t.Errorf("expected dyn, got %v", got)
	}

	if got := a.Access(b, "nil"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	if got := a.Access(b, "missing"); got != Undefined {
		t.Errorf("expected Undefined for failed lookup, got %v", got)
	}

	if got := a.Access(panicky{}, "any"); got != Undefined {
		t.Errorf("expected Undefined for panicking lookup, got %v", got)
	}
}

func TestAccessNameResolver(t *testing.T) {
	ada := person{Name: "Ada"}
	seq := []any{"a", "b"}

	calls := 0
	a := NewAccessor(func(name string) string {
		calls++

		return ExportedName(name)
	})

	if got := a.Access(ada, "name"); got != "Ada" {
		t.Errorf("expected Ada, got %v", got)
	}

	if got := a.Access(map[string]any{"Key": 1}, "key"); got != 1 {
		t.Errorf("expected resolved map key, got %v", got)
	}

	before := calls

	if got := a.Access(seq, "0"); got != "a" {
		t.Errorf("expected a, got %v", got)
	}

	if calls != before {
		t.Errorf("name resolver called for sequence index")
	}
}

func TestAccessUndefinedInstance(t *testing.T) {
	a := NewAccessor(nil)

	for _, v := range []any{nil, Undefined} {
		if got := a.Access(v, "x"); got != Undefined {
			t.Errorf("Access(%v) = %v, want Undefined", v, got)
		}
	}
}

func TestExportedName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"name", "Name"},
		{"Name", "Name"},
		{"éclair", "Éclair"},
		{"", ""},
		{"_x", "_x"},
	}

	for _, tt := range tests {
		if got := ExportedName(tt.in); got != tt.want {
			t.Errorf("ExportedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestAccessNeverPanics feeds randomized values and member names through
// the accessor.
func TestAccessNeverPanics(t *testing.T) {
	f := fuzz.New().NilChance(0.2).NumElements(0, 4)
	a := NewAccessor(ExportedName)

	for range 200 {
		var (
			m      map[string]string
			ints   []int
			p      person
			member string
		)

		f.Fuzz(&m)
		f.Fuzz(&ints)
		f.Fuzz(&p)
		f.Fuzz(&member)

		for _, v := range []any{m, ints, p, &p, member} {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Access(%v, %q) panicked: %v", v, member, r)
					}
				}()

				_ = a.Access(v, member)
			}()
		}
	}
}

func FuzzAccess(f *testing.F) {
	f.Add("0")
	f.Add("[1]")
	f.Add("Name")
	f.Add("name")
	f.Add("")
	f.Add("[")

	data := []any{
		[]any{"a", "b"},
		map[string]any{"name": "n"},
		person{Name: "Ada"},
		bag{"x": 1},
	}

	f.Fuzz(func(t *testing.T, member string) {
		a := NewAccessor(ExportedName)

		for _, v := range data {
			_ = a.Access(v, member)
		}
	})
}
