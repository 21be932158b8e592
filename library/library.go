package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hlasmtools/hlasm-ls/util"
)

// Provider resolves COPY members and external macro definitions by name.
type Provider interface {
	Fetch(member string) (string, bool)
}

// FileSystemProvider searches a list of directories for member files,
// trying the common copybook and macro extensions.
type FileSystemProvider struct {
	SearchPaths []string
}

var extensions = []string{"", ".hlasm", ".asm", ".mac", ".cpy"}

func (p *FileSystemProvider) Fetch(member string) (string, bool) {
	for _, dir := range p.SearchPaths {
		for _, ext := range extensions {
			for _, name := range []string{member, strings.ToUpper(member), strings.ToLower(member)} {
				b, err := os.ReadFile(filepath.Join(dir, name+ext))
				if err == nil {
					return string(b), true
				}
			}
		}
	}
	util.Log.WithField("member", member).Warn("library member not found")
	return "", false
}

// MapProvider serves members from memory; used by tests and embedders.
type MapProvider map[string]string

func (p MapProvider) Fetch(member string) (string, bool) {
	text, ok := p[strings.ToUpper(member)]
	return text, ok
}

// Empty is a provider with no members.
var Empty Provider = MapProvider{}
