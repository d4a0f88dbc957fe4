package lang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/hbind/lang/ast"
	"github.com/ardnew/hbind/lang/bind"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"

	thisPath = "this"
)

// block is an open {{#name}} section awaiting its {{/name}}.
type block struct {
	name    string
	args    []ast.Node
	offset  int // of the opening tag
	body    []ast.Node
	inverse []ast.Node
	inElse  bool
}

func (b *block) append(n ast.Node) {
	if b.inElse {
		b.inverse = append(b.inverse, n)
	} else {
		b.body = append(b.body, n)
	}
}

// trimLast removes trailing whitespace from the text node most recently
// appended, dropping it if nothing is left.
func (b *block) trimLast() {
	nodes := &b.body
	if b.inElse {
		nodes = &b.inverse
	}

	n := len(*nodes)
	if n == 0 {
		return
	}

	t, ok := (*nodes)[n-1].(*ast.TextNode)
	if !ok {
		return
	}

	if s := strings.TrimRightFunc(t.Text, unicode.IsSpace); s != "" {
		(*nodes)[n-1] = &ast.TextNode{Text: s}
	} else {
		*nodes = (*nodes)[:n-1]
	}
}

type parser struct {
	src      string
	isHelper func(string) bool
	stack    []*block
	trimNext bool
}

// Parse parses a template into an unbound syntax tree.
//
// The template syntax is a subset of Handlebars:
//
//	{{path}}                        print the value at path
//	{{helper arg ...}}              call a helper
//	{{target.Method(arg ...)}}      call a method and print the result
//	{{#name arg ...}}...{{/name}}   block helper, if, or unless
//	{{else}}                        start the inverse section of a block
//	{{! comment }}  {{!-- comment --}}
//
// Arguments are paths or string, number, and boolean literals. A single
// path in a mustache is a helper call when isHelper reports it as a helper
// name; isHelper may be nil. A "~" next to a delimiter trims the adjacent
// whitespace, and \{{ is a literal "{{".
func Parse(source string, isHelper func(string) bool) (*ast.BlockNode, error) {
	if isHelper == nil {
		isHelper = func(string) bool { return false }
	}

	p := &parser{
		src:      source,
		isHelper: isHelper,
		stack:    []*block{{}},
	}

	if err := p.parse(); err != nil {
		return nil, err
	}

	return ast.Block(p.stack[0].body...), nil
}

func (p *parser) top() *block { return p.stack[len(p.stack)-1] }

func (p *parser) errorf(offset int, format string, args ...any) *ParseError {
	return newParseError(p.src, offset, fmt.Sprintf(format, args...))
}

func (p *parser) parse() error {
	pos := 0

	for pos < len(p.src) {
		open := strings.Index(p.src[pos:], openDelim)
		if open < 0 {
			p.text(p.src[pos:])

			break
		}

		open += pos

		if open > pos && p.src[open-1] == '\\' {
			p.text(p.src[pos:open-1] + openDelim)
			pos = open + len(openDelim)

			continue
		}

		p.text(p.src[pos:open])

		end, err := p.tag(open)
		if err != nil {
			return err
		}

		pos = end
	}

	if len(p.stack) > 1 {
		b := p.top()

		return p.errorf(b.offset, "unclosed block {{#%s}}", b.name)
	}

	return nil
}

func (p *parser) text(s string) {
	if p.trimNext {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		p.trimNext = false
	}

	if s != "" {
		p.top().append(&ast.TextNode{Text: s})
	}
}

// tag parses the tag starting at open and returns the offset following it.
func (p *parser) tag(open int) (int, error) {
	start := open + len(openDelim)
	rest := p.src[start:]

	trimL := strings.HasPrefix(rest, "~")
	if trimL {
		start++
		rest = rest[1:]
		p.top().trimLast()
	}

	if strings.HasPrefix(rest, "!") {
		return p.comment(open, start, strings.HasPrefix(rest, "!--"))
	}

	stash := strings.HasPrefix(rest, "{")
	if stash {
		start++
	}

	stop, err := p.closing(open, start, stash)
	if err != nil {
		return 0, err
	}

	content := p.src[start:stop]
	end := stop + len(closeDelim)

	if stash {
		end++
	}

	if strings.HasSuffix(content, "~") {
		content = content[:len(content)-1]
		p.trimNext = true
	}

	return end, p.dispatch(open, start, strings.TrimSpace(content))
}

// comment skips a comment tag. Long comments ({{!-- --}}) may contain
// closing delimiters.
func (p *parser) comment(open, start int, long bool) (int, error) {
	for i := start; ; {
		j := strings.Index(p.src[i:], closeDelim)
		if j < 0 {
			return 0, p.errorf(open, "unclosed comment")
		}

		stop := i + j
		body := p.src[start:stop]

		trim := strings.HasSuffix(body, "~")
		if trim {
			body = body[:len(body)-1]
		}

		if !long || (len(body) >= len("!----") && strings.HasSuffix(body, "--")) {
			p.trimNext = trim

			return stop + len(closeDelim), nil
		}

		i = stop + len(closeDelim)
	}
}

// closing returns the offset of the closing delimiter of the tag whose
// content begins at start. Delimiters inside quoted strings are ignored.
func (p *parser) closing(open, start int, stash bool) (int, error) {
	var quote byte

	for i := start; i < len(p.src); i++ {
		c := p.src[i]

		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}

		case c == '"' || c == '\'':
			quote = c

		case strings.HasPrefix(p.src[i:], closeDelim):
			if !stash {
				return i, nil
			}

			if strings.HasPrefix(p.src[i:], closeDelim+"}") {
				return i, nil
			}

			return 0, p.errorf(i, "expected }}} to close {{{")
		}
	}

	return 0, p.errorf(open, "unclosed tag")
}

func (p *parser) dispatch(open, start int, content string) error {
	switch {
	case content == "":
		return p.errorf(open, "empty tag")

	case content == "else" || content == "^":
		return p.elseTag(open)

	case strings.HasPrefix(content, "else "):
		return p.errorf(open, "chained {{else}} sections are not supported")

	case content[0] == '#':
		return p.openBlock(open, start, content[1:])

	case content[0] == '/':
		return p.closeBlock(open, strings.TrimSpace(content[1:]))

	default:
		return p.statement(open, start, content)
	}
}

func (p *parser) statement(open, start int, content string) error {
	args, err := p.args(start, content)
	if err != nil {
		return err
	}

	head := args[0]

	if len(args) == 1 {
		switch n := head.(type) {
		case *ast.PathNode:
			if p.isHelper(n.Path) {
				p.top().append(&ast.HelperNode{Name: n.Path})
			} else {
				p.top().append(&ast.StatementNode{Body: n})
			}

		case *ast.LiteralNode:
			// A lone index is a lookup into the current value, not a number.
			if i, ok := n.Value.(int64); ok && i >= 0 {
				path := &ast.PathNode{Path: strconv.FormatInt(i, 10)}
				p.top().append(&ast.StatementNode{Body: path})

				break
			}

			p.top().append(&ast.WriteNode{Value: n})

		default:
			p.top().append(&ast.WriteNode{Value: n})
		}

		return nil
	}

	name, ok := helperName(head)
	if !ok {
		return p.errorf(open, "expected helper name before arguments")
	}

	p.top().append(&ast.HelperNode{Name: name, Args: args[1:]})

	return nil
}

func (p *parser) openBlock(open, start int, content string) error {
	args, err := p.args(start+1, content)
	if err != nil {
		return err
	}

	name, ok := helperName(args[0])
	if !ok {
		return p.errorf(open, "expected block name")
	}

	if (name == "if" || name == "unless") && len(args) != 2 {
		return p.errorf(open, "{{#%s}} takes exactly one argument", name)
	}

	p.stack = append(p.stack, &block{
		name:   name,
		args:   args[1:],
		offset: open,
	})

	return nil
}

func (p *parser) elseTag(open int) error {
	b := p.top()

	switch {
	case len(p.stack) == 1:
		return p.errorf(open, "{{else}} outside of a block")

	case b.inElse:
		return p.errorf(open, "duplicate {{else}} in {{#%s}}", b.name)
	}

	b.inElse = true

	return nil
}

func (p *parser) closeBlock(open int, name string) error {
	b := p.top()

	if len(p.stack) == 1 {
		return p.errorf(open, "unexpected {{/%s}}", name)
	}

	if name != b.name {
		return p.errorf(open, "{{/%s}} does not close {{#%s}}", name, b.name)
	}

	p.stack = p.stack[:len(p.stack)-1]
	p.top().append(b.node())

	return nil
}

// node lowers a closed block: if and unless become conditionals, anything
// else a block helper.
func (b *block) node() ast.Node {
	var inverse *ast.BlockNode
	if b.inElse {
		inverse = ast.Block(b.inverse...)
	}

	switch b.name {
	case "if", "unless":
		test := b.args[0]
		if b.name == "unless" {
			test = &ast.UnaryNode{Op: ast.OpNot, Operand: test}
		}

		cond := &ast.ConditionalNode{Test: test, Then: ast.Block(b.body...)}
		if inverse != nil {
			cond.Else = inverse
		}

		return cond

	default:
		return &ast.HelperNode{
			Name:    b.name,
			Args:    b.args,
			Body:    ast.Block(b.body...),
			Inverse: inverse,
		}
	}
}

// helperName reports whether n is a plain identifier usable as a helper
// name.
func helperName(n ast.Node) (string, bool) {
	pn, ok := n.(*ast.PathNode)
	if !ok || pn.Path == thisPath ||
		strings.ContainsAny(pn.Path, bind.MemberSeparator+bind.ScopeSeparator+bind.VariableMarker) {
		return "", false
	}

	return pn.Path, true
}

// args splits the content of a tag, which begins at offset base in the
// source, into argument nodes.
func (p *parser) args(base int, content string) ([]ast.Node, error) {
	s := &scanner{p: p, src: content, base: base + leading(p.src[base:], content)}

	var args []ast.Node

	for {
		s.skipSpace()

		if s.done() {
			break
		}

		n, err := s.arg()
		if err != nil {
			return nil, err
		}

		args = append(args, n)
	}

	if len(args) == 0 {
		return nil, p.errorf(base, "empty tag")
	}

	return args, nil
}

// leading returns the offset of content within raw, where content was
// produced by trimming raw.
func leading(raw, content string) int {
	if content == "" {
		return 0
	}

	return max(strings.Index(raw, content), 0)
}

// scanner tokenizes the arguments of a single tag.
type scanner struct {
	p    *parser
	src  string
	base int
	pos  int
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) skipSpace() {
	for !s.done() && (isSpace(s.src[s.pos]) || s.src[s.pos] == ',') {
		s.pos++
	}
}

func (s *scanner) errorf(format string, args ...any) *ParseError {
	return s.p.errorf(s.base+s.pos, format, args...)
}

func (s *scanner) arg() (ast.Node, error) {
	switch c := s.src[s.pos]; {
	case c == '"' || c == '\'':
		v, err := s.quoted(c)
		if err != nil {
			return nil, err
		}

		return &ast.LiteralNode{Value: v}, nil

	case c == '(' || c == ')':
		return nil, s.errorf("unexpected %q", c)
	}

	word := s.word()

	if !s.done() && s.src[s.pos] == '(' {
		return s.call(word)
	}

	if v, ok := literal(word); ok {
		return &ast.LiteralNode{Value: v}, nil
	}

	return &ast.PathNode{Path: normalizePath(word)}, nil
}

func (s *scanner) word() string {
	start := s.pos

	for !s.done() {
		c := s.src[s.pos]
		if isSpace(c) || c == ',' || c == '(' || c == ')' || c == '"' || c == '\'' {
			break
		}

		s.pos++
	}

	return s.src[start:s.pos]
}

// call parses the argument list of a method call on target.Method.
func (s *scanner) call(word string) (ast.Node, error) {
	at := s.pos

	target, method := thisPath, word
	if i := strings.LastIndex(word, bind.MemberSeparator); i >= 0 {
		target, method = normalizePath(word[:i]), word[i+1:]
	}

	if method == "" || !isIdent(method) {
		return nil, s.errorf("invalid method name %q", method)
	}

	s.pos++ // (

	var args []ast.Node

	for {
		s.skipSpace()

		if s.done() {
			s.pos = at

			return nil, s.errorf("unclosed argument list")
		}

		if s.src[s.pos] == ')' {
			s.pos++

			break
		}

		n, err := s.arg()
		if err != nil {
			return nil, err
		}

		args = append(args, n)
	}

	return &ast.CallNode{
		Target: &ast.PathNode{Path: target},
		Method: method,
		Args:   args,
	}, nil
}

func (s *scanner) quoted(q byte) (string, error) {
	start := s.pos
	s.pos++

	var sb strings.Builder

	for !s.done() {
		c := s.src[s.pos]

		switch c {
		case '\\':
			if s.pos+1 < len(s.src) {
				s.pos++
				sb.WriteByte(unescape(s.src[s.pos]))
			}

		case q:
			s.pos++

			return sb.String(), nil

		default:
			sb.WriteByte(c)
		}

		s.pos++
	}

	s.pos = start

	return "", s.errorf("unterminated string")
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// literal parses word as a boolean or number.
func literal(word string) (any, bool) {
	switch word {
	case "true":
		return true, true
	case "false":
		return false, true
	}

	if word == "" || !strings.ContainsRune("+-.0123456789", rune(word[0])) {
		return nil, false
	}

	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return i, true
	}

	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return f, true
	}

	return nil, false
}

// normalizePath maps the Handlebars spelling "." of the current value to
// "this", and "./x" to "x".
func normalizePath(path string) string {
	switch {
	case path == ".":
		return thisPath

	case strings.HasPrefix(path, "./"):
		return path[2:]

	default:
		return path
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdent(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}

	return s != ""
}
