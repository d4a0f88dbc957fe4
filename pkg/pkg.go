// Package pkg holds the identity of the hbind module: its name, version,
// and the per-user directories it reads configuration from and writes
// profiles to.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and names the
	// default config and cache directories.
	Name = "hbind"
	// Description is a one-line summary used in help output.
	Description = "Render Handlebars-style templates against structured data"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
