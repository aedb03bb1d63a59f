package walker

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/harrison/rclean/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkTree creates directories (trailing slash) and empty files under root.
func mkTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, nil, 0644))
	}
}

// collect walks root and returns yielded paths relative to root plus errors.
func collect(t *testing.T, root string, filter *Filter) ([]string, []error) {
	t.Helper()
	var rels []string
	var errs []error
	for entry, err := range Walk(root, filter) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rel, relErr := filepath.Rel(root, entry.Path)
		require.NoError(t, relErr)
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)
	return rels, errs
}

func TestWalkPrunesHiddenAndFiles(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		"a/Cargo.toml",
		"a/src/",
		".hidden/Cargo.toml",
		".hidden/inner/",
		"b/.git/objects/",
		"notes.txt",
	)

	got, errs := collect(t, root, DefaultFilter())

	assert.Empty(t, errs)
	assert.Equal(t, []string{".", "a", "a/src", "b"}, got)
}

func TestWalkRootAlwaysYieldedFirst(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".dotted-root")
	mkTree(t, root, "child/")

	var first models.DirectoryEntry
	for entry, err := range Walk(root, DefaultFilter()) {
		require.NoError(t, err)
		first = entry
		break
	}

	assert.Equal(t, root, first.Path)
	assert.Equal(t, 0, first.Depth)
	assert.True(t, first.IsDir)
}

func TestWalkDoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	mkTree(t, root, "a/b/")

	// cycle back to the root and a link to a sibling
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "b", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "alias")))

	got, errs := collect(t, root, DefaultFilter())

	assert.Empty(t, errs)
	assert.Equal(t, []string{".", "a", "a/b"}, got)
}

func TestWalkSymlinkedRootIsEntered(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	target := t.TempDir()
	mkTree(t, target, "proj/")
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, link))

	var names []string
	for entry, err := range Walk(link, DefaultFilter()) {
		require.NoError(t, err)
		names = append(names, entry.Name)
	}

	assert.Contains(t, names, "proj")
}

func TestWalkBundleRule(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "Tool.app/Contents/", "Doc.RTFD/", "plain/")

	filter := NewFilter(SymlinkRule(), HiddenRule(), BundleRule("app", ".rtfd"))
	got, _ := collect(t, root, filter)

	assert.Equal(t, []string{".", "plain"}, got)
}

func TestWalkSkipBuildOutputRule(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		"proj/Cargo.toml",
		"proj/target/debug/",
		"other/target/keep/",
	)

	filter := DefaultFilter().With(SkipBuildOutputRule("Cargo.toml", "target"))
	got, _ := collect(t, root, filter)

	assert.Equal(t, []string{".", "other", "other/target", "other/target/keep", "proj"}, got)
}

func TestWalkUnreadableDirectoryContinues(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	mkTree(t, root, "locked/inner/", "open/")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	got, errs := collect(t, root, DefaultFilter())

	require.Len(t, errs, 1)
	var terr *TraversalError
	require.True(t, errors.As(errs[0], &terr))
	assert.Equal(t, locked, terr.Path)
	assert.ErrorIs(t, errs[0], os.ErrPermission)
	assert.Equal(t, []string{".", "locked", "open"}, got)
}

func TestWalkMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	got, errs := collect(t, filepath.Dir(root), NewFilter())
	assert.Equal(t, []string{"."}, got)
	assert.Empty(t, errs)

	var count int
	for _, err := range Walk(root, nil) {
		count++
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
	assert.Equal(t, 1, count)
}

func TestWalkIsRestartable(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "a/", "b/")

	seq := Walk(root, DefaultFilter())
	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
}

func TestFilterPruned(t *testing.T) {
	f := DefaultFilter()

	pruned, rule := f.Pruned(models.NewDirectoryEntry("x/link", true, true, 1))
	assert.True(t, pruned)
	assert.Equal(t, "symlink", rule)

	pruned, rule = f.Pruned(models.NewDirectoryEntry("x/.cache", true, false, 1))
	assert.True(t, pruned)
	assert.Equal(t, "hidden", rule)

	pruned, rule = f.Pruned(models.NewDirectoryEntry("x/Cargo.toml", false, false, 1))
	assert.True(t, pruned)
	assert.Equal(t, "not-a-directory", rule)

	assert.True(t, f.Allows(models.NewDirectoryEntry("x/crate", true, false, 1)))
	assert.Contains(t, f.Rules(), "hidden")
}
