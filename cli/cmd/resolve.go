package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hbind/lang/bind"
	"github.com/ardnew/hbind/log"
)

// Resolve evaluates a path expression against data and prints the result.
type Resolve struct {
	Data `embed:""`

	Scope  []string `help:"Resolve within nested scopes, outermost first" placeholder:"PATH" sep:"none"`
	Format string   `default:"yaml" enum:"yaml,json,text"                     help:"Output format" short:"f"`
	Indent int      `default:"2"                                              help:"Indent width for YAML or JSON output" short:"i"`

	Path string `arg:"" help:"Path expression, such as user/name or ../items.[0]" name:"path"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	return r.run(ctx, os.Stdin, stdout(ctx))
}

func (r *Resolve) run(ctx context.Context, stdin io.Reader, out io.Writer) error {
	data, err := r.Load(ctx, stdin)
	if err != nil {
		return err
	}

	scope, err := Scope(bind.NewContext(data, nil, nil), r.Scope...)
	if err != nil {
		return err
	}

	value, err := bind.ResolvePath(scope, r.Path)
	if err != nil {
		return err
	}

	log.Default().DebugContext(ctx, "resolved",
		slog.String("path", r.Path),
		slog.Int("depth", scope.Depth()),
		slog.String("type", fmt.Sprintf("%T", value)),
	)

	if bind.IsUndefined(value) {
		return ErrUndefined.With(slog.String("path", r.Path))
	}

	return Encode(ctx, out, value, r.Format, r.Indent)
}

// Scope descends from ctx into a child context for each path, resolved
// against the context before it.
func Scope(ctx *bind.Context, paths ...string) (*bind.Context, error) {
	for _, path := range paths {
		value, err := bind.ResolvePath(ctx, path)
		if err != nil {
			return nil, err
		}

		if bind.IsUndefined(value) {
			return nil, ErrUndefined.With(slog.String("scope", path))
		}

		ctx = ctx.Child(value, nil)
	}

	return ctx, nil
}

// Encode writes value to w as YAML, JSON, or plain text.
func Encode(
	ctx context.Context,
	w io.Writer,
	value any,
	format string,
	indent int,
) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		data, err = json.MarshalIndent(value, "", strings.Repeat(" ", indent))
		data = append(data, '\n')

	case "text":
		data = []byte(fmt.Sprintln(value))

	default:
		data, err = yaml.MarshalContext(ctx, value, yaml.Indent(indent))
	}

	if err != nil {
		return ErrMarshal.Wrap(err).With(slog.String("format", format))
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
