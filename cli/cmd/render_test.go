package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/hbind/lang"
	"github.com/ardnew/hbind/lang/bind"
)

func TestRender(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.hbs":  "{{#each items}}{{name}}{{#unless @last}}, {{/unless}}{{/each}} for {{owner}}",
		"data.yaml": "owner: Ada\nitems:\n  - name: a\n  - name: b\n",
		"bad.hbs":   "{{#each items}}",
		"up.hbs":    "{{../x}}",
	})

	path := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name    string
		render  Render
		stdin   string
		want    string
		wantErr error
	}{
		{
			name: "file",
			render: Render{
				Data:     Data{Data: []string{path("data.yaml")}, DataFormat: "yaml"},
				Template: path("page.hbs"),
			},
			want: "a, b for Ada",
		},
		{
			name: "stdin_template",
			render: Render{
				Data:     Data{Data: []string{path("data.yaml")}, DataFormat: "yaml"},
				Template: "-",
			},
			stdin: "Hi {{owner}}",
			want:  "Hi Ada",
		},
		{
			name: "stdin_data",
			render: Render{
				Data:     Data{Data: []string{"-"}, DataFormat: "json"},
				Template: path("page.hbs"),
				NoCache:  true,
			},
			stdin: `{"owner": "Grace", "items": []}`,
			want:  " for Grace",
		},
		{
			name: "no_data",
			render: Render{
				Data:     Data{DataFormat: "yaml"},
				Template: path("page.hbs"),
			},
			want: " for ",
		},
		{
			name: "stdin_conflict",
			render: Render{
				Data:     Data{Data: []string{"-"}, DataFormat: "yaml"},
				Template: "-",
			},
			wantErr: ErrStdinConflict,
		},
		{
			name:    "missing_template",
			render:  Render{Template: path("nope.hbs")},
			wantErr: ErrOpenTemplate,
		},
		{
			name:    "syntax_error",
			render:  Render{Template: path("bad.hbs")},
			wantErr: lang.ErrSyntax,
		},
		{
			name:    "parent_of_root",
			render:  Render{Template: path("up.hbs")},
			wantErr: bind.ErrParentOfRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := tt.render.run(t.Context(), strings.NewReader(tt.stdin), &out)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("render failed: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderOutputFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"t.hbs":   "{{x}}",
		"bad.hbs": "{{x",
		"out.txt": "previous",
	})

	out := filepath.Join(dir, "out.txt")

	r := Render{Template: filepath.Join(dir, "bad.hbs"), Output: out}
	if err := r.run(t.Context(), strings.NewReader(""), nil); err == nil {
		t.Fatal("expected syntax error")
	}

	if data, _ := os.ReadFile(out); string(data) != "previous" {
		t.Errorf("expected failed render to keep output, got %q", data)
	}

	r = Render{
		Data:     Data{Data: []string{"-"}, DataFormat: "yaml"},
		Template: filepath.Join(dir, "t.hbs"),
		Output:   out,
	}

	var stdout bytes.Buffer

	if err := r.run(t.Context(), strings.NewReader("x: 42\n"), &stdout); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if data, _ := os.ReadFile(out); string(data) != "42" {
		t.Errorf("expected 42 in output file, got %q", data)
	}

	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
}

func TestRenderTree(t *testing.T) {
	dir := writeFiles(t, map[string]string{"t.hbs": "a{{b}}"})

	r := Render{Template: filepath.Join(dir, "t.hbs"), Tree: true, NoCache: true}

	var out bytes.Buffer

	if err := r.run(t.Context(), strings.NewReader(""), &out); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Block", "Text", "Write", "Resolve", "b"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected tree to contain %q:\n%s", want, out.String())
		}
	}
}
