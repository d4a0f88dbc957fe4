package cmd

import (
	"context"
	"os"
	"slices"

	"github.com/ardnew/hbind/cli/cmd/repl"
	"github.com/ardnew/hbind/log"
)

// Repl resolves paths and renders template snippets interactively.
type Repl struct {
	Data `embed:""`

	History string `default:"${cache}" help:"Directory holding the input history" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	if slices.Contains(r.Data.Data, stdinSource) {
		return ErrStdinRepl
	}

	data, err := r.Load(ctx, os.Stdin)
	if err != nil {
		return err
	}

	return repl.Run(ctx, data, r.History, log.Default())
}
