package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hbind/log"
)

const defaultEditor = "vi"

// editDataCommand implements [tea.ExecCommand]. It writes the session data
// as YAML to a temporary file, opens the user's editor on it, and decodes
// the result. On a decode error the user is asked to edit again; declining
// returns [ErrEditDeclined].
type editDataCommand struct {
	data    any
	ctxFunc func() context.Context
	logger  log.Logger

	newData any
	edited  bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDataCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDataCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDataCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop. An empty file cancels the edit
// and leaves edited false.
func (c *editDataCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := yaml.MarshalContext(ctx, c.data, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	f, err := os.CreateTemp("", "hbind-repl-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		var data any

		decodeErr := yaml.UnmarshalContext(ctx, content, &data)

		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newData, c.edited = data, true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path) //nolint:gosec
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
