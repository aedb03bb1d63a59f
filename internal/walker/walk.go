package walker

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/rclean/internal/models"
)

// Walk returns a lazy depth-first sequence of the directories under root that
// survive filter. The root itself is always yielded first and never pruned.
//
// Unreadable directories are yielded a second time paired with a
// *TraversalError; the walk then skips their contents and continues. Breaking
// out of the range loop stops the walk. The sequence can be ranged over again
// to restart from root.
func Walk(root string, filter *Filter) iter.Seq2[models.DirectoryEntry, error] {
	if filter == nil {
		filter = DefaultFilter()
	}

	return func(yield func(models.DirectoryEntry, error) bool) {
		walkRoot := ResolveRoot(root)

		_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			depth := depthOf(walkRoot, path)

			if err != nil {
				entry := models.NewDirectoryEntry(path, d != nil && d.IsDir(), false, depth)
				if !yield(entry, &TraversalError{Path: path, Err: err}) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path == walkRoot {
				entry := models.NewDirectoryEntry(path, d.IsDir(), false, 0)
				if !yield(entry, nil) {
					return filepath.SkipAll
				}
				return nil
			}

			entry := models.NewDirectoryEntry(path, d.IsDir(), d.Type()&fs.ModeSymlink != 0, depth)
			if pruned, _ := filter.Pruned(entry); pruned {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(entry, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// ResolveRoot follows a symlinked root once so the walk can enter it. Links
// below the root are still never followed. Paths yielded by Walk are under
// the returned directory.
func ResolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
