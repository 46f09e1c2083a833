//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the dumbo module embedded at build time.
// The CLI prints it for --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It names the
	// configuration and cache directories and appears in help text.
	Name = "dumbo"
	// Description is a short, human-readable summary used in help output.
	Description = "Logic-less text template renderer"
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
