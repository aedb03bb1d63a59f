package selector

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/harrison/rclean/internal/models"
	"github.com/harrison/rclean/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func runConfig(root string, all bool, exclude []string) *models.RunConfig {
	return models.NewRunConfig(models.RunConfigOptions{
		Root:        root,
		All:         all,
		ExcludeDirs: exclude,
		Tool:        "cargo",
		Manifest:    "Cargo.toml",
		OutputDir:   "target",
	})
}

// selectAll walks root and returns the selected projects relative to root.
func selectAll(t *testing.T, cfg *models.RunConfig) []string {
	t.Helper()
	filter := walker.DefaultFilter()
	sel := New(cfg, filter)

	var got []string
	for entry, err := range walker.Walk(cfg.Root(), filter) {
		require.NoError(t, err)
		projects, err := sel.Select(entry)
		require.NoError(t, err)
		for _, p := range projects {
			rel, _ := filepath.Rel(cfg.Root(), p)
			got = append(got, filepath.ToSlash(rel))
		}
	}
	sort.Strings(got)
	return got
}

func scenarioTree(t *testing.T) string {
	root := t.TempDir()
	mkTree(t, root,
		"A/Cargo.toml",
		"A/target/",
		"B/Cargo.toml",
		".hidden/Cargo.toml",
		".hidden/target/",
	)
	return root
}

func TestSelectDefaultModeNeedsBuildOutput(t *testing.T) {
	root := scenarioTree(t)
	assert.Equal(t, []string{"A"}, selectAll(t, runConfig(root, false, nil)))
}

func TestSelectAllModeIgnoresBuildOutput(t *testing.T) {
	root := scenarioTree(t)
	assert.Equal(t, []string{"A", "B"}, selectAll(t, runConfig(root, true, nil)))
}

func TestSelectRequiresManifest(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		"nomanifest/target/",
		"nomanifest/src/main.rs",
		"manifestdir/Cargo.toml/", // a directory named like the manifest does not count
		"manifestdir/target/",
	)

	assert.Empty(t, selectAll(t, runConfig(root, false, nil)))
	assert.Empty(t, selectAll(t, runConfig(root, true, nil)))
}

func TestSelectNestedProjects(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		"ws/Cargo.toml",
		"ws/target/",
		"ws/crates/core/Cargo.toml",
		"ws/crates/core/target/",
		"ws/examples/demo/Cargo.toml",
		"ws/examples/demo/target/",
		"tests/Cargo.toml",
		"tests/target/",
	)

	t.Run("rule disabled", func(t *testing.T) {
		got := selectAll(t, runConfig(root, false, nil))
		assert.Equal(t, []string{"tests", "ws", "ws/crates/core", "ws/examples/demo"}, got)
	})

	t.Run("rule enabled", func(t *testing.T) {
		got := selectAll(t, runConfig(root, false, DefaultExcludeDirs))
		assert.Equal(t, []string{"ws", "ws/crates/core"}, got)
	})
}

func TestSelectSkipsSymlinkedProjects(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	mkTree(t, root, "target/Cargo.toml", "target/target/")
	require.NoError(t, os.Symlink(filepath.Join(root, "target"), filepath.Join(root, "alias")))

	assert.Equal(t, []string{"target"}, selectAll(t, runConfig(root, false, nil)))
}

func TestSelectVisitsChildOnce(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "A/Cargo.toml", "A/target/")
	cfg := runConfig(root, false, nil)
	sel := New(cfg, nil)
	candidate := models.NewDirectoryEntry(root, true, false, 0)

	first, err := sel.Select(candidate)
	require.NoError(t, err)
	second, err := sel.Select(candidate)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestSelectIsDeterministic(t *testing.T) {
	root := scenarioTree(t)
	cfg := runConfig(root, true, nil)

	assert.Equal(t, selectAll(t, cfg), selectAll(t, cfg))
}

func TestSelectListingError(t *testing.T) {
	root := t.TempDir()
	sel := New(runConfig(root, false, nil), nil)
	missing := models.NewDirectoryEntry(filepath.Join(root, "gone"), true, false, 1)

	projects, err := sel.Select(missing)

	assert.Nil(t, projects)
	var lerr *ListingError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, missing.Path, lerr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectSymlinkedRootMatchesBelowRoot(t *testing.T) {
	base := t.TempDir()
	codeDir := filepath.Join(base, "tests", "code")
	mkTree(t, codeDir, "proj/Cargo.toml", "proj/target/", "examples/demo/Cargo.toml", "examples/demo/target/")
	link := filepath.Join(base, "link")
	if err := os.Symlink(codeDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	cfg := runConfig(link, false, DefaultExcludeDirs)
	filter := walker.DefaultFilter()
	sel := New(cfg, filter)

	var got []string
	for entry, err := range walker.Walk(cfg.Root(), filter) {
		require.NoError(t, err)
		projects, err := sel.Select(entry)
		require.NoError(t, err)
		for _, p := range projects {
			got = append(got, filepath.Base(p))
		}
	}

	// "tests" sits above the root and must not count; "examples" is below it
	assert.Equal(t, []string{"proj"}, got)
}
