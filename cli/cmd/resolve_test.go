package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/hbind/lang/bind"
)

func TestResolve(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"data.yaml": "count: 3\nuser:\n  name: Ada\n  langs: [go, c]\n",
	})

	data := Data{Data: []string{filepath.Join(dir, "data.yaml")}, DataFormat: "yaml"}

	tests := []struct {
		name    string
		resolve Resolve
		want    string
		wantErr error
	}{
		{
			name:    "yaml_scalar",
			resolve: Resolve{Data: data, Format: "yaml", Indent: 2, Path: "user/name"},
			want:    "Ada\n",
		},
		{
			name:    "yaml_list",
			resolve: Resolve{Data: data, Format: "yaml", Indent: 2, Path: "user.langs"},
			want:    "- go\n- c\n",
		},
		{
			name:    "json",
			resolve: Resolve{Data: data, Format: "json", Indent: 2, Path: "user.langs"},
			want:    "[\n  \"go\",\n  \"c\"\n]\n",
		},
		{
			name:    "text",
			resolve: Resolve{Data: data, Format: "text", Path: "user.langs.[1]"},
			want:    "c\n",
		},
		{
			name: "scope",
			resolve: Resolve{
				Data: data, Format: "text", Scope: []string{"user"}, Path: "name",
			},
			want: "Ada\n",
		},
		{
			name: "scope_parent",
			resolve: Resolve{
				Data: data, Format: "text", Scope: []string{"user", "langs"}, Path: "../../count",
			},
			want: "3\n",
		},
		{
			name:    "undefined",
			resolve: Resolve{Data: data, Format: "yaml", Path: "user.email"},
			wantErr: ErrUndefined,
		},
		{
			name:    "undefined_scope",
			resolve: Resolve{Data: data, Format: "yaml", Scope: []string{"group"}, Path: "name"},
			wantErr: ErrUndefined,
		},
		{
			name:    "parent_of_root",
			resolve: Resolve{Data: data, Format: "yaml", Path: "../count"},
			wantErr: bind.ErrParentOfRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := tt.resolve.run(t.Context(), strings.NewReader(""), &out)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeMarshalError(t *testing.T) {
	var out bytes.Buffer

	err := Encode(t.Context(), &out, make(chan int), "json", 2)
	if !errors.Is(err, ErrMarshal) {
		t.Errorf("expected ErrMarshal, got %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
