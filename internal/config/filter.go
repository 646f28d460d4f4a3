package config

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Extensions lists the file extensions treated as Ruby sources.
var Extensions = []string{".rb", ".rake", ".ru", ".gemspec"}

// Filter decides which files are analyzed.
type Filter struct {
	root    string
	exclude []glob.Glob
}

// IsRuby reports whether path has a Ruby extension.
func IsRuby(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Excluded reports whether path matches an Exclude glob. Paths are matched
// relative to the filter root with forward slashes.
func (f *Filter) Excluded(path string) bool {
	if f == nil || len(f.exclude) == 0 {
		return false
	}

	rel := path
	if f.root != "" {
		if r, err := filepath.Rel(f.root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)

	for _, g := range f.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
