// Package essays loads and generates the long-form explanations attached to
// dhammas. Essays live as one markdown file per slug so they survive
// re-seeding and can be regenerated independently.
package essays

import (
	"os"
	"path/filepath"
	"strings"
)

// DirLoader reads essays from a directory of <slug>.md files.
type DirLoader struct {
	dir string
}

// NewDirLoader creates a DirLoader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// Load returns the essay for slug, or "" when no file exists. A missing
// essay is normal; generation runs separately from seeding.
func (l *DirLoader) Load(slug string) string {
	data, err := os.ReadFile(filepath.Join(l.dir, slug+".md"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Exists reports whether an essay file is present for slug.
func (l *DirLoader) Exists(slug string) bool {
	_, err := os.Stat(filepath.Join(l.dir, slug+".md"))
	return err == nil
}

// Save writes an essay for slug, creating the directory if needed.
func (l *DirLoader) Save(slug, essay string) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, slug+".md"), []byte(essay+"\n"), 0o644)
}
