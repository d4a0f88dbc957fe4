package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML config file.
//
// Top-level keys name flags, with hyphens or underscores. A key naming a
// command holds a map of flags that apply only to that command and takes
// precedence over the top-level value:
//
//	log-level: debug
//	log_pretty: false
//	render:
//	  no-cache: true
//	  data: [base.yaml, site.yaml]
//
// Command-line flags override config file values. A file that cannot be
// decoded is treated as empty.
func resolve(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		return config{}, nil //nolint:nilerr
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := c.section(parent.Command.Name); ok {
			if value, ok := section.lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := c.lookup(flag.Name); ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

func (c config) section(name string) (config, bool) {
	switch s := c[name].(type) {
	case map[string]any:
		return config(s), true
	case config:
		return s, true
	}

	return nil, false
}

// lookup finds name in its hyphenated or underscored form.
func (c config) lookup(name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if value, ok := c[key]; ok {
			return native(value), true
		}
	}

	return nil, false
}

// native converts decoded numbers to strings, which kong parses with the
// flag's own mapper.
func native(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out
	}

	return value
}
