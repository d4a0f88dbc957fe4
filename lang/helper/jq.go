package helper

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/ardnew/hbind/lang/bind"
)

// jq runs a jq query over its first argument and prints each result on its
// own line. Strings print verbatim; other results print as compact JSON.
func (r *Registry) jq(ctx *bind.Context, args []any) error {
	if err := arity("jq", args, 2); err != nil {
		return err
	}

	src, ok := args[1].(string)
	if !ok {
		return ErrArgType.With(slog.String("helper", "jq"))
	}

	results, err := Query(args[0], src)
	if err != nil {
		return err
	}

	var sb strings.Builder

	for i, v := range results {
		if i > 0 {
			sb.WriteByte('\n')
		}

		if s, ok := v.(string); ok {
			sb.WriteString(s)

			continue
		}

		b, err := json.Marshal(v)
		if err != nil {
			return ErrJQ.Wrap(err)
		}

		sb.Write(b)
	}

	return r.write(ctx.Output(), sb.String())
}

// Query runs the jq program src with input as its input value and returns
// every result.
func Query(input any, src string) ([]any, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, ErrJQ.Wrap(err).With(slog.String("query", src))
	}

	in, err := normalize(input)
	if err != nil {
		return nil, ErrJQ.Wrap(err).With(slog.String("query", src))
	}

	var out []any

	iter := q.Run(in)

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, ok := v.(error); ok {
			return nil, ErrJQ.Wrap(err).With(slog.String("query", src))
		}

		out = append(out, v)
	}

	return out, nil
}

// normalize converts v to the plain JSON value types gojq accepts.
func normalize(v any) (any, error) {
	if bind.IsUndefined(v) {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("input is not JSON-representable: %w", err)
	}

	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out, nil
}
