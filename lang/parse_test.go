package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/hbind/lang/ast"
)

func stmt(path string) ast.Node {
	return &ast.StatementNode{Body: &ast.PathNode{Path: path}}
}

func text(s string) ast.Node { return &ast.TextNode{Text: s} }

func path(p string) ast.Node { return &ast.PathNode{Path: p} }

func lit(v any) ast.Node { return &ast.LiteralNode{Value: v} }

func TestParse(t *testing.T) {
	helpers := func(name string) bool { return name == "now" || name == "log" }

	tests := []struct {
		name   string
		source string
		want   *ast.BlockNode
	}{
		{
			name:   "text",
			source: "plain",
			want:   ast.Block(text("plain")),
		},
		{
			name:   "empty",
			source: "",
			want:   ast.Block(),
		},
		{
			name:   "path",
			source: "Hi {{ user.name }}!",
			want:   ast.Block(text("Hi "), stmt("user.name"), text("!")),
		},
		{
			name:   "dot",
			source: "{{.}}{{./a}}",
			want:   ast.Block(stmt("this"), stmt("a")),
		},
		{
			name:   "triple_stash",
			source: "{{{html}}}",
			want:   ast.Block(stmt("html")),
		},
		{
			name:   "known_helper",
			source: "{{now}}",
			want:   ast.Block(&ast.HelperNode{Name: "now"}),
		},
		{
			name:   "helper_args",
			source: `{{log "a \"b\"" 'c' 1 -2.5 true ../x}}`,
			want: ast.Block(&ast.HelperNode{
				Name: "log",
				Args: []ast.Node{
					lit(`a "b"`), lit("c"), lit(int64(1)), lit(-2.5), lit(true), path("../x"),
				},
			}),
		},
		{
			name:   "literal",
			source: `{{"x"}}`,
			want:   ast.Block(&ast.WriteNode{Value: lit("x")}),
		},
		{
			name:   "index",
			source: `{{1}}{{[2]}}{{-1}}{{1.5}}`,
			want: ast.Block(
				stmt("1"),
				stmt("[2]"),
				&ast.WriteNode{Value: lit(int64(-1))},
				&ast.WriteNode{Value: lit(1.5)},
			),
		},
		{
			name:   "call",
			source: `{{user.Greet("hi", name)}}{{Now()}}`,
			want: ast.Block(
				&ast.WriteNode{Value: &ast.CallNode{
					Target: path("user"),
					Method: "Greet",
					Args:   []ast.Node{lit("hi"), path("name")},
				}},
				&ast.WriteNode{Value: &ast.CallNode{Target: path("this"), Method: "Now"}},
			),
		},
		{
			name:   "block",
			source: "{{#each items}}[{{this}}]{{else}}none{{/each}}",
			want: ast.Block(&ast.HelperNode{
				Name:    "each",
				Args:    []ast.Node{path("items")},
				Body:    ast.Block(text("["), stmt("this"), text("]")),
				Inverse: ast.Block(text("none")),
			}),
		},
		{
			name:   "block_without_inverse",
			source: "{{#with a}}{{b}}{{/with}}",
			want: ast.Block(&ast.HelperNode{
				Name: "with",
				Args: []ast.Node{path("a")},
				Body: ast.Block(stmt("b")),
			}),
		},
		{
			name:   "if",
			source: "{{#if ok}}y{{^}}n{{/if}}",
			want: ast.Block(&ast.ConditionalNode{
				Test: path("ok"),
				Then: ast.Block(text("y")),
				Else: ast.Block(text("n")),
			}),
		},
		{
			name:   "unless",
			source: "{{#unless ok}}n{{/unless}}",
			want: ast.Block(&ast.ConditionalNode{
				Test: &ast.UnaryNode{Op: ast.OpNot, Operand: path("ok")},
				Then: ast.Block(text("n")),
			}),
		},
		{
			name:   "nested",
			source: "{{#each a}}{{#if @first}}f{{/if}}{{/each}}",
			want: ast.Block(&ast.HelperNode{
				Name: "each",
				Args: []ast.Node{path("a")},
				Body: ast.Block(&ast.ConditionalNode{
					Test: path("@first"),
					Then: ast.Block(text("f")),
				}),
			}),
		},
		{
			name:   "comments",
			source: "a{{! x }}b{{!-- {{y}} --}}c",
			want:   ast.Block(text("a"), text("b"), text("c")),
		},
		{
			name:   "trim",
			source: "a \n {{~x~}} \n b",
			want:   ast.Block(text("a"), stmt("x"), text("b")),
		},
		{
			name:   "trim_drops_blank_text",
			source: "  {{~x}}",
			want:   ast.Block(stmt("x")),
		},
		{
			name:   "escaped",
			source: `\{{x}}`,
			want:   ast.Block(text("{{"), text("x}}")),
		},
		{
			name:   "delimiter_in_string",
			source: `{{log "}}"}}`,
			want:   ast.Block(&ast.HelperNode{Name: "log", Args: []ast.Node{lit("}}")}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.source, helpers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		msg    string
		line   int
		col    int
	}{
		{"unclosed_tag", "ab{{x", "unclosed tag", 1, 3},
		{"unclosed_comment", "{{!-- x }}", "unclosed comment", 1, 1},
		{"unclosed_block", "x\n{{#if a}}", "unclosed block {{#if}}", 2, 1},
		{"mismatched", "{{#if a}}{{/each}}", "{{/each}} does not close {{#if}}", 1, 10},
		{"unexpected_close", "\n  {{/if}}", "unexpected {{/if}}", 2, 3},
		{"else_outside", "{{else}}", "{{else}} outside of a block", 1, 1},
		{"duplicate_else", "{{#if a}}{{else}}{{else}}{{/if}}", "duplicate {{else}}", 1, 18},
		{"chained_else", "{{#if a}}{{else if b}}{{/if}}", "chained {{else}}", 1, 10},
		{"empty", "{{ }}", "empty tag", 1, 1},
		{"if_arity", "{{#if}}{{/if}}", "takes exactly one argument", 1, 1},
		{"string", `{{log "abc}}`, "unclosed tag", 1, 1},
		{"helper_name", `{{"a" b}}`, "expected helper name", 1, 1},
		{"block_name", `{{#a.b}}{{/a.b}}`, "expected block name", 1, 1},
		{"paren", `{{log )}}`, "unexpected", 1, 7},
		{"call", `{{a.B(1}}`, "unclosed argument list", 1, 6},
		{"method", `{{a.(1)}}`, "invalid method name", 1, 5},
		{"stash", `{{{x}}`, "expected }}}", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source, nil)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected %v, got %v", ErrSyntax, err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			if !strings.Contains(pe.Msg, tt.msg) {
				t.Errorf("expected message containing %q, got %q", tt.msg, pe.Msg)
			}

			if pe.Line != tt.line || pe.Column != tt.col {
				t.Errorf("expected %d:%d, got %d:%d", tt.line, tt.col, pe.Line, pe.Column)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	_, err := Parse("ok\n  {{/x}}\nmore", nil)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	want := "  2 |   {{/x}}\n" + strings.Repeat(" ", 8) + "^\n"
	if pe.Snippet != want {
		t.Errorf("expected snippet %q, got %q", want, pe.Snippet)
	}

	if !strings.HasPrefix(err.Error(), "parse error at line 2, column 3: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{
		"", "a", "{{x}}", "{{#each a}}{{.}}{{else}}n{{/each}}",
		`{{log "x" 1 true}}`, "{{!-- c --}}", "{{~x~}}", `\{{`, "{{a.B(c)}}",
	} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		tree, err := Parse(s, nil)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("unexpected error type %T", err)
			}

			return
		}

		if tree == nil {
			t.Error("nil tree without error")
		}
	})
}
