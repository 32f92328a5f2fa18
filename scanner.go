package htmlfigma

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIncludes are the glob patterns used when none are configured.
var DefaultIncludes = []string{"**/*.html", "**/*.htm"}

// ScanStats tracks input discovery statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files kept for conversion
	FilesSkipped    int // Files skipped by .gitignore or non-HTML extensions
}

// scanner discovers HTML inputs below a source directory.
type scanner struct {
	root      string
	gitignore *ignore.GitIgnore
}

// newScanner loads root/.gitignore when present.
// A missing .gitignore disables that filter.
func newScanner(root string) *scanner {
	if root == "" {
		root = "."
	}
	s := &scanner{root: root}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		s.gitignore = gi
	}
	return s
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// shouldSkipFile reports whether rel, relative to the scan root, is excluded.
//
// Two-layer filtering:
// 1. Extension check: only .html and .htm files are converted
// 2. Gitignore check: skip files ignored by the root .gitignore
func (s *scanner) shouldSkipFile(rel string) bool {
	if !isHTMLFile(rel) {
		return true
	}
	return s.gitignore != nil && s.gitignore.MatchesPath(filepath.ToSlash(rel))
}

// expand expands include patterns relative to the root. Results are
// deduplicated, sorted and relative to the root.
func (s *scanner) expand(patterns []string) ([]string, ScanStats, error) {
	if len(patterns) == 0 {
		patterns = DefaultIncludes
	}

	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	fsys := os.DirFS(s.root)

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if s.shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, filepath.FromSlash(match))
			stats.FilesScanned++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}

	return rel
}
