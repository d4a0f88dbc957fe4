package bind

import (
	"errors"
	"testing"
)

func adaMap() map[string]any {
	return map[string]any{
		"name":   "Ada",
		"parent": map[string]any{"name": "Grace"},
		"items":  []any{"x", "y", "z"},
	}
}

func TestResolvePath(t *testing.T) {
	root := NewContext(adaMap(), nil, nil)

	tests := []struct {
		name string
		path string
		want any
	}{
		{"member", "name", "Ada"},
		{"scope_step", "parent/name", "Grace"},
		{"chained_members", "parent.name", "Grace"},
		{"back_out_of_step", "parent/../name", "Ada"},
		{"missing_chain", "missing.nested", Undefined},
		{"missing_aborts_path", "missing/../name", Undefined},
		{"index", "items.1", "y"},
		{"bracketed_index", "items.[2]", "z"},
		{"this_member", "this.items.0", "x"},
		{"this_step", "this/name", "Ada"},
		{"index_out_of_range", "items.5", Undefined},
		{"missing_variable", "@index", Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(root, tt.path)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error: %v", tt.path, err)
			}

			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveThis(t *testing.T) {
	m := adaMap()

	for _, v := range []any{nil, 42, "s", Undefined, &m} {
		got, err := ResolvePath(NewContext(v, nil, nil), "this")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != v {
			t.Errorf("ResolvePath(this) = %v, want %v", got, v)
		}
	}
}

func TestResolveParentOfRoot(t *testing.T) {
	for _, path := range []string{"..", "../name", "parent/../../name"} {
		_, err := ResolvePath(NewContext(adaMap(), nil, nil), path)
		if err == nil {
			t.Fatalf("ResolvePath(%q): expected error", path)
		}

		var ce *CompilerError
		if !errors.As(err, &ce) {
			t.Fatalf("expected *CompilerError, got %T: %v", err, err)
		}

		if ce.Path != path {
			t.Errorf("expected path %q in error, got %q", path, ce.Path)
		}

		if !errors.Is(err, ErrParentOfRoot) {
			t.Errorf("expected ErrParentOfRoot, got %v", err)
		}
	}
}

func TestResolveParentScope(t *testing.T) {
	root := NewContext(adaMap(), nil, nil)
	child := root.Child("inner", map[string]any{"index": 2, "key": nil})

	tests := []struct {
		path string
		want any
	}{
		{"this", "inner"},
		{"..", root.Value()},
		{"../name", "Ada"},
		{"../parent/name", "Grace"},
		{"@index", 2},
		{"@key", nil},
		{"@first", Undefined},
		{"../@index", Undefined},
	}

	for _, tt := range tests {
		got, err := ResolvePath(child, tt.path)
		if err != nil {
			t.Fatalf("ResolvePath(%q) error: %v", tt.path, err)
		}

		// Compare maps by identity of a member rather than by value.
		if m, ok := tt.want.(map[string]any); ok {
			gm, ok := got.(map[string]any)
			if !ok || gm["name"] != m["name"] {
				t.Errorf("ResolvePath(%q) = %v, want %v", tt.path, got, tt.want)
			}

			continue
		}

		if got != tt.want {
			t.Errorf("ResolvePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := ResolvePath(child, "../.."); err == nil {
		t.Error("expected error navigating above root from child")
	}
}

func TestResolveRecord(t *testing.T) {
	type named struct {
		Name   string
		Parent *named
	}

	ada := &named{Name: "Ada", Parent: &named{Name: "Grace"}}
	r := NewResolver(NewConfig(WithNameResolver(ExportedName)))
	ctx := NewContext(ada, nil, nil)

	tests := []struct {
		path string
		want any
	}{
		{"name", "Ada"},
		{"parent/name", "Grace"},
		{"parent/../name", "Ada"},
		{"parent.parent.name", Undefined},
		{"missing.nested", Undefined},
	}

	for _, tt := range tests {
		got, err := r.Resolve(ctx, tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.path, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveSequenceRoot(t *testing.T) {
	ctx := NewContext([]any{"a", "b", "c"}, nil, nil)

	tests := []struct {
		path string
		want any
	}{
		{"1", "b"},
		{"[1]", "b"},
		{"5", Undefined},
	}

	for _, tt := range tests {
		got, err := ResolvePath(ctx, tt.path)
		if err != nil {
			t.Fatalf("ResolvePath(%q) error: %v", tt.path, err)
		}

		if got != tt.want {
			t.Errorf("ResolvePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveNilContext(t *testing.T) {
	_, err := ResolvePath(nil, "name")
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("expected ErrNilContext, got %v", err)
	}
}

func BenchmarkResolvePath(b *testing.B) {
	root := NewContext(adaMap(), nil, nil)
	child := root.Child([]any{"a", "b"}, map[string]any{"index": 0})

	paths := []string{"1", "../parent/name", "@index", "../items.[2]"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range paths {
			if _, err := ResolvePath(child, p); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkResolveRecord(b *testing.B) {
	type named struct {
		Name   string
		Parent *named
	}

	r := NewResolver(NewConfig(WithNameResolver(ExportedName)))
	ctx := NewContext(&named{Name: "Ada", Parent: &named{Name: "Grace"}}, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Resolve(ctx, "parent.name"); err != nil {
			b.Fatal(err)
		}
	}
}
