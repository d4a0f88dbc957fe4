package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/ardnew/hbind/lang"
	"github.com/ardnew/hbind/lang/ast"
	"github.com/ardnew/hbind/log"
)

// Render compiles a template and renders it against data.
type Render struct {
	Data `embed:""`

	Output  string `help:"Write output to a file instead of stdout" short:"o" type:"path"`
	NoCache bool   `help:"Do not reuse parsed templates"`
	Tree    bool   `help:"Print the bound syntax tree instead of rendering"`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	return r.run(ctx, os.Stdin, stdout(ctx))
}

func (r *Render) run(ctx context.Context, stdin io.Reader, out io.Writer) error {
	if r.Template == stdinSource && slices.Contains(r.Data.Data, stdinSource) {
		return ErrStdinConflict
	}

	logger := log.Default()

	var tmpl io.Reader = stdin

	if r.Template != stdinSource {
		file, err := os.Open(r.Template)
		if err != nil {
			return ErrOpenTemplate.Wrap(err).
				With(slog.String("template", r.Template))
		}
		defer file.Close()

		tmpl = file
	}

	prog, err := lang.CompileReader(ctx, tmpl,
		lang.WithLogger(logger),
		lang.WithCache(!r.NoCache),
	)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if r.Tree {
		ast.Print(&buf, prog.Tree())
	} else {
		data, err := r.Load(ctx, stdin)
		if err != nil {
			return err
		}

		if err := prog.Render(&buf, data); err != nil {
			return err
		}
	}

	logger.DebugContext(ctx, "rendered",
		slog.String("template", r.Template),
		slog.Int("bytes", buf.Len()),
	)

	// A failed render leaves an existing output file untouched.
	if r.Output != "" {
		if err := os.WriteFile(r.Output, buf.Bytes(), 0o644); err != nil { //nolint:gosec
			return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
		}

		return nil
	}

	if _, err := buf.WriteTo(out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
