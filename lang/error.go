package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/hbind/lang/bind"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax    = bind.NewError("template syntax error")
	ErrReadInput = bind.NewError("failed to read input")
)

// ParseError reports a syntax error at a position in the template source.
// It unwraps to [ErrSyntax].
type ParseError struct {
	Line    int    // 1-based line of the error
	Column  int    // 1-based column of the error, in bytes
	Msg     string // description of the problem
	Snippet string // offending source line with a marker under Column
}

func newParseError(source string, offset int, msg string) *ParseError {
	offset = min(max(offset, 0), len(source))

	before := source[:offset]
	line := strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1

	end := strings.IndexByte(source[start:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += start
	}

	col := offset - start + 1
	num := strconv.Itoa(line)

	// Print the line with its number, then a marker under the column.
	// The marker padding accounts for 2 leading spaces and " | ".
	var sb strings.Builder

	sb.WriteString("  " + num + " | " + source[start:end] + "\n")
	sb.WriteString(strings.Repeat(" ", len(num)+5+col-1) + "^\n")

	return &ParseError{
		Line:    line,
		Column:  col,
		Msg:     msg,
		Snippet: sb.String(),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := "parse error at line " + strconv.Itoa(e.Line) +
		", column " + strconv.Itoa(e.Column) + ": " + e.Msg

	if e.Snippet == "" {
		return msg
	}

	return msg + "\n" + strings.TrimSuffix(e.Snippet, "\n")
}

// Unwrap returns [ErrSyntax].
func (e *ParseError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}
