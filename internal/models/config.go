package models

import "slices"

// RunConfig is the configuration of a single run. It is built once, before
// traversal starts, and is read-only afterwards so it can be shared by every
// worker without locking.
type RunConfig struct {
	root        string
	release     bool
	doc         bool
	all         bool
	dryRun      bool
	excludeDirs []string
	tool        string
	manifest    string
	outputDir   string
	jobs        int
}

// RunConfigOptions carries the values used to build a RunConfig
type RunConfigOptions struct {
	Root        string
	Release     bool
	Doc         bool
	All         bool
	DryRun      bool
	ExcludeDirs []string // nil disables the nested-exclusion rule
	Tool        string
	Manifest    string
	OutputDir   string
	Jobs        int
}

// NewRunConfig copies opts into an immutable RunConfig.
func NewRunConfig(opts RunConfigOptions) *RunConfig {
	return &RunConfig{
		root:        opts.Root,
		release:     opts.Release,
		doc:         opts.Doc,
		all:         opts.All,
		dryRun:      opts.DryRun,
		excludeDirs: slices.Clone(opts.ExcludeDirs),
		tool:        opts.Tool,
		manifest:    opts.Manifest,
		outputDir:   opts.OutputDir,
		jobs:        opts.Jobs,
	}
}

func (c *RunConfig) Root() string      { return c.root }
func (c *RunConfig) Release() bool     { return c.release }
func (c *RunConfig) Doc() bool         { return c.doc }
func (c *RunConfig) All() bool         { return c.all }
func (c *RunConfig) DryRun() bool      { return c.dryRun }
func (c *RunConfig) Tool() string      { return c.tool }
func (c *RunConfig) Manifest() string  { return c.manifest }
func (c *RunConfig) OutputDir() string { return c.outputDir }
func (c *RunConfig) Jobs() int         { return c.jobs }

// ExcludeDirs returns a copy of the nested-exclusion names. Empty means the
// rule is off.
func (c *RunConfig) ExcludeDirs() []string { return slices.Clone(c.excludeDirs) }

// SkipNested reports whether projects under an excluded directory name are
// skipped.
func (c *RunConfig) SkipNested() bool { return len(c.excludeDirs) > 0 }
