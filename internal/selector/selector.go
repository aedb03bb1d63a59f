// Package selector decides which children of a candidate directory are
// projects to clean.
package selector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/harrison/rclean/internal/models"
	"github.com/harrison/rclean/internal/walker"
)

// DefaultExcludeDirs are the reserved subdirectory names used when the nested
// exclusion rule is enabled without explicit names.
var DefaultExcludeDirs = []string{"examples", "tests", "benches"}

// ListingError reports a candidate whose children could not be listed.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// Selector classifies the immediate children of candidate directories.
// It remembers every child it has classified so a directory is considered at
// most once per run.
type Selector struct {
	cfg    *models.RunConfig
	root   string // the directory the walk actually descends from
	filter *walker.Filter

	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates a Selector. filter decides which children are even looked at;
// pass the same filter the walker uses so hidden, symlinked and bundle
// children are never selected.
func New(cfg *models.RunConfig, filter *walker.Filter) *Selector {
	if filter == nil {
		filter = walker.DefaultFilter()
	}
	return &Selector{
		cfg:    cfg,
		root:   walker.ResolveRoot(cfg.Root()),
		filter: filter,
		seen:   make(map[string]struct{}),
	}
}

// Select lists candidate's children in filesystem order and returns the paths
// of those that are projects to clean. Unselected children are skipped
// silently.
func (s *Selector) Select(candidate models.DirectoryEntry) ([]string, error) {
	children, err := os.ReadDir(candidate.Path)
	if err != nil {
		return nil, &ListingError{Path: candidate.Path, Err: err}
	}

	var projects []string
	for _, child := range children {
		path := filepath.Join(candidate.Path, child.Name())
		entry := models.NewDirectoryEntry(path, child.IsDir(), child.Type()&fs.ModeSymlink != 0, candidate.Depth+1)
		if !s.filter.Allows(entry) {
			continue
		}
		if !s.markSeen(path) {
			continue
		}
		if s.IsProject(path) {
			projects = append(projects, path)
		}
	}
	return projects, nil
}

// IsProject applies the project predicate to a directory already known to
// pass the filter: the manifest is present, the path is not nested under an
// excluded name, and the build-output state matches the configured mode.
func (s *Selector) IsProject(dir string) bool {
	if !isFile(filepath.Join(dir, s.cfg.Manifest())) {
		return false
	}
	if s.cfg.SkipNested() && s.nestedUnderExcluded(dir) {
		return false
	}
	if s.cfg.All() {
		return true
	}
	return isDir(filepath.Join(dir, s.cfg.OutputDir()))
}

// nestedUnderExcluded checks the path components below the root, including
// the project's own name.
func (s *Selector) nestedUnderExcluded(dir string) bool {
	rel, err := filepath.Rel(s.root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// outside the walk root only the project's own name is known
		rel = filepath.Base(dir)
	}
	excluded := s.cfg.ExcludeDirs()
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if slices.Contains(excluded, part) {
			return true
		}
	}
	return false
}

func (s *Selector) markSeen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[path]; ok {
		return false
	}
	s.seen[path] = struct{}{}
	return true
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
