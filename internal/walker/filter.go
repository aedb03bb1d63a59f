package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/rclean/internal/models"
)

// Rule is one pruning predicate. Prune returns true when the entry must not be
// yielded or descended into.
type Rule struct {
	Name  string
	Prune func(e models.DirectoryEntry) bool
}

// Filter is an ordered set of pruning rules.
type Filter struct {
	rules []Rule
}

// NewFilter builds a filter from rules. The directory-only rule is always
// applied and does not need to be passed.
func NewFilter(rules ...Rule) *Filter {
	return &Filter{rules: append([]Rule(nil), rules...)}
}

// DefaultFilter returns the symlink, hidden and platform bundle rules.
func DefaultFilter() *Filter {
	rules := []Rule{SymlinkRule(), HiddenRule()}
	rules = append(rules, platformRules()...)
	return NewFilter(rules...)
}

// With returns a copy of f with extra rules appended.
func (f *Filter) With(rules ...Rule) *Filter {
	combined := append(append([]Rule(nil), f.rules...), rules...)
	return &Filter{rules: combined}
}

// Rules returns the names of the configured rules in evaluation order.
func (f *Filter) Rules() []string {
	names := make([]string, 0, len(f.rules))
	for _, r := range f.rules {
		names = append(names, r.Name)
	}
	return names
}

// Pruned reports whether e is rejected, and by which rule. Non-directories
// are always rejected.
func (f *Filter) Pruned(e models.DirectoryEntry) (bool, string) {
	for _, r := range f.rules {
		if r.Prune(e) {
			return true, r.Name
		}
	}
	if !e.IsDir {
		return true, "not-a-directory"
	}
	return false, ""
}

// Allows is the negation of Pruned.
func (f *Filter) Allows(e models.DirectoryEntry) bool {
	pruned, _ := f.Pruned(e)
	return !pruned
}

// SymlinkRule prunes symbolic links.
func SymlinkRule() Rule {
	return Rule{
		Name:  "symlink",
		Prune: func(e models.DirectoryEntry) bool { return e.IsSymlink },
	}
}

// HiddenRule prunes names starting with the hidden marker.
func HiddenRule() Rule {
	return Rule{
		Name:  "hidden",
		Prune: func(e models.DirectoryEntry) bool { return e.IsHidden },
	}
}

// BundleRule prunes directories carrying one of the given extensions
// (case-insensitive, with or without the leading dot).
func BundleRule(exts ...string) Rule {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return Rule{
		Name:  "bundle",
		Prune: func(e models.DirectoryEntry) bool { return e.Ext != "" && set[e.Ext] },
	}
}

// SkipBuildOutputRule prunes a build-output directory sitting next to a
// manifest. Such trees are large and never contain projects.
func SkipBuildOutputRule(manifest, outputDir string) Rule {
	return Rule{
		Name: "build-output",
		Prune: func(e models.DirectoryEntry) bool {
			if e.Name != outputDir || e.Depth == 0 {
				return false
			}
			_, err := os.Stat(filepath.Join(filepath.Dir(e.Path), manifest))
			return err == nil
		},
	}
}
