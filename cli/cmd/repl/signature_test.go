package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/log"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   call
		wantOK bool
	}{
		{"plain_path", "user.name", 9, call{}, false},
		{"helper_name", "{{each", 6, call{}, false},
		{"helper_first_arg", "{{#each ", 8, call{name: "each", argIndex: 0}, true},
		{"helper_typing_arg", "{{lookup us", 11, call{name: "lookup", argIndex: 0}, true},
		{"helper_second_arg", "{{lookup user ", 14, call{name: "lookup", argIndex: 1}, true},
		{"closed_mustache", "{{lookup a b}} ", 15, call{}, false},
		{"method_open", "Greet(", 6, call{name: "Greet", method: true}, true},
		{"method_arg", "user.Greet(na", 13, call{name: "user.Greet", method: true}, true},
		{"method_second_arg", "acct.Move(1, ", 13, call{name: "acct.Move", argIndex: 1, method: true}, true},
		{"method_in_helper", "{{lookup this.Get(", 18, call{name: "this.Get", method: true}, true},
		{"nested_parens", "a.F(b.G(1), ", 12, call{name: "a.F", argIndex: 1, method: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectCall(tt.input, tt.cursor)
			if ok != tt.wantOK {
				t.Fatalf("detectCall(%q, %d): expected ok=%v, got %v",
					tt.input, tt.cursor, tt.wantOK, ok)
			}

			if ok && got != tt.want {
				t.Errorf("detectCall(%q, %d): expected %+v, got %+v",
					tt.input, tt.cursor, tt.want, got)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	s := newSession(map[string]any{"p": point{X: 1, Y: 2}}, log.Logger{})

	s.helpers.Register("custom", func(*bind.Context, []any) error { return nil })

	tests := []struct {
		name   string
		call   call
		want   []string
		wantOK bool
	}{
		{"builtin_helper", call{name: "lookup"}, []string{"value", "key"}, true},
		{"custom_helper", call{name: "custom"}, []string{"...args"}, true},
		{"unknown_helper", call{name: "nope"}, nil, false},
		{"method_no_args", call{name: "p.Norm", method: true}, []string{}, true},
		{"method_variadic", call{name: "p.Scale", method: true}, []string{"int", "...string"}, true},
		{"unknown_method", call{name: "p.Nope", method: true}, nil, false},
		{"undefined_target", call{name: "q.Norm", method: true}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.signature(tt.call)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name   string
		call   call
		params []string
		want   []string
	}{
		{"helper", call{name: "lookup", argIndex: 1}, []string{"value", "key"}, []string{"lookup", "value", "key"}},
		{"method", call{name: "p.Scale", method: true}, []string{"int", "...string"}, []string{"p.Scale", "(", "int", ", ", "...string", ")"}},
		{"no_params", call{name: "p.Norm", method: true}, nil, []string{"p.Norm", "(", ")"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.call, tt.params)

			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("expected hint %q to contain %q", got, want)
				}
			}
		})
	}
}
