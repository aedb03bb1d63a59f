package models

import (
	"path/filepath"
	"strings"
)

// HiddenPrefix marks a hidden file or directory name.
const HiddenPrefix = "."

// DirectoryEntry is a filesystem path plus the metadata the walker and
// selector decide on. Entries are produced by traversal and never mutated.
type DirectoryEntry struct {
	Path      string // Path as reached from the walk root
	Name      string // Base name
	IsDir     bool   // Directory (symlinks are never reported as directories)
	IsSymlink bool   // Entry itself is a symbolic link
	IsHidden  bool   // Name starts with HiddenPrefix
	Ext       string // Lowercased extension including the dot, "" if none
	Depth     int    // 0 for the walk root
}

// NewDirectoryEntry builds an entry for path from the parts of fs.DirEntry
// that matter for filtering.
func NewDirectoryEntry(path string, isDir, isSymlink bool, depth int) DirectoryEntry {
	name := filepath.Base(path)
	var ext string
	if name != "." && name != ".." {
		ext = strings.ToLower(filepath.Ext(name))
	}
	return DirectoryEntry{
		Path:      path,
		Name:      name,
		IsDir:     isDir && !isSymlink,
		IsSymlink: isSymlink,
		IsHidden:  IsHiddenName(name),
		Ext:       ext,
		Depth:     depth,
	}
}

// IsHiddenName reports whether name is hidden. "." and ".." are not.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, HiddenPrefix)
}
