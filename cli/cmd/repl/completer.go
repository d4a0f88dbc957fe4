package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = members{
	{name: "help"}, {name: "list"}, {name: "enter"}, {name: "leave"},
	{name: "where"}, {name: "edit"}, {name: "clear"}, {name: "quit"},
}

// isWordBoundary reports whether r delimits a completion word. Member and
// scope separators are boundaries; "@" and index brackets are not, so
// "@index" and "[0]" complete as whole words.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', '/', ' ', '\t',
		'{', '}', '(', ')', ',',
		'#', '^', '~', '!', '=', '"', '\'':
		return true
	}

	return false
}

// isPathSeparator reports whether r joins the steps of a path expression.
func isPathSeparator(r rune) bool { return r == '.' || r == '/' }

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. An empty word is returned when the cursor sits
// on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the path expression whose members complete the word
// starting at wordStart. For "{{#each ../user.ta" with the word "ta" the
// parent path is "../user". Words not preceded by a path separator have
// no parent and complete against the current scope.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	r, size := utf8.DecodeLastRuneInString(prefix)
	if !isPathSeparator(r) {
		return ""
	}

	prefix = prefix[:len(prefix)-size]
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if isWordBoundary(r) && !isPathSeparator(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// inMustache reports whether the cursor follows an unclosed "{{".
func inMustache(input string, cursor int) bool {
	before := input[:min(max(cursor, 0), len(input))]

	return strings.LastIndex(before, "{{") > strings.LastIndex(before, "}}")
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, along with the candidates they index and the
// word boundaries. An empty word only lists candidates after a separator,
// so that browsing members of a path needs no typing.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates members,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.FindFrom(word, ctrlCommands), ctrlCommands, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)
	candidates = m.session.members(parent)

	if parent == "" && inMustache(input, cursor) {
		candidates = append(candidates, m.session.helperNames()...)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c.name, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.FindFrom(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	candidates members,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		method := match.Index < len(candidates) && candidates[match.Index].method
		rendered := renderCandidate(match, method, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Methods are displayed with a "()" suffix that completion
// does not insert.
func renderCandidate(match fuzzy.Match, method, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if method {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
