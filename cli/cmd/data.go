package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hbind/log"
)

// Data is embedded by commands that render or resolve against data files.
type Data struct {
	Data       []string `help:"Data file(s) (YAML, JSON, or TOML) or '-' for stdin" placeholder:"FILE" short:"d" sep:"none"`
	DataFormat string   `default:"yaml" enum:"yaml,json,toml"                          help:"Format of data read from stdin or an unrecognized extension"`
}

// formatOf returns the data format of a file by extension, or fallback.
func formatOf(name, fallback string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	}

	return fallback
}

// decode reads one document from r in the given format.
func decode(ctx context.Context, r io.Reader, format string) (any, error) {
	switch format {
	case "yaml", "json":
		// JSON is decoded as YAML, of which it is a subset.
		var v any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &v)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return v, err

	case "toml":
		var v map[string]any

		_, err := toml.NewDecoder(r).Decode(&v)

		return v, err
	}

	return nil, ErrDataFormat.With(slog.String("format", format))
}

// Load reads and merges every data file. With no files the result is nil.
// A single file may hold any value; multiple files must each hold a map
// and are merged shallowly, later keys replacing earlier ones.
func (d Data) Load(ctx context.Context, stdin io.Reader) (any, error) {
	srcs, closeAll, err := openSources(d.Data, stdin)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	logger := log.Default()

	var (
		result any
		merged map[string]any
	)

	for i, src := range srcs {
		format := d.DataFormat
		if src.name != stdinSource {
			format = formatOf(src.name, d.DataFormat)
		}

		v, err := decode(ctx, src, format)
		if err != nil {
			return nil, ErrDecodeData.Wrap(err).
				With(slog.String("file", src.name), slog.String("format", format))
		}

		logger.DebugContext(ctx, "loaded data",
			slog.String("file", src.name),
			slog.String("format", format),
		)

		if i == 0 {
			result = v

			continue
		}

		if merged == nil {
			first, ok := result.(map[string]any)
			if !ok && result != nil {
				return nil, ErrMergeData.With(slog.String("file", srcs[0].name))
			}

			merged = make(map[string]any, len(first))
			maps.Copy(merged, first)
			result = merged
		}

		m, ok := v.(map[string]any)
		if !ok && v != nil {
			return nil, ErrMergeData.With(slog.String("file", src.name))
		}

		maps.Copy(merged, m)
	}

	return result, nil
}
