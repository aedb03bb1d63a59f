// Package config loads rclean settings from YAML, merges command-line flags
// over them and resolves the immutable models.RunConfig for a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/rclean/internal/logger"
	"github.com/harrison/rclean/internal/models"
	"github.com/harrison/rclean/internal/selector"
)

// DefaultConfigPath is the config file looked up in the working directory.
var DefaultConfigPath = filepath.Join(".rclean", "config.yaml")

// Config represents rclean configuration options
type Config struct {
	// Tool is the build tool to run ("cargo")
	Tool string `yaml:"tool"`

	// Manifest is the file that marks a project directory
	Manifest string `yaml:"manifest"`

	// OutputDir is the build-output directory name
	OutputDir string `yaml:"output_dir"`

	// Release passes --release to the clean subcommand
	Release bool `yaml:"release"`

	// Doc passes --doc to the clean subcommand
	Doc bool `yaml:"doc"`

	// All cleans every manifest-bearing directory, built or not
	All bool `yaml:"all"`

	// SkipNested skips projects under any ExcludeDirs name
	SkipNested bool `yaml:"skip_nested"`

	// ExcludeDirs are the names used when SkipNested is on
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// PruneBuildOutput stops the walk from entering build-output directories
	PruneBuildOutput bool `yaml:"prune_build_output"`

	// BundleExtensions are extra directory extensions never descended into
	BundleExtensions []string `yaml:"bundle_extensions"`

	// Jobs is the number of concurrent clean workers (0 = available parallelism)
	Jobs int `yaml:"jobs"`

	// DryRun lists selected projects without cleaning them
	DryRun bool `yaml:"dry_run"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir, when set, receives a run log per invocation
	LogDir string `yaml:"log_dir"`

	// NoColor disables colored console output
	NoColor bool `yaml:"no_color"`

	// Lock takes a per-root lock so concurrent runs cannot overlap
	Lock bool `yaml:"lock"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Tool:             "cargo",
		Manifest:         "Cargo.toml",
		OutputDir:        "target",
		SkipNested:       false,
		ExcludeDirs:      slices.Clone(selector.DefaultExcludeDirs),
		PruneBuildOutput: true,
		Jobs:             0,
		LogLevel:         "info",
		Lock:             true,
	}
}

// yamlConfig mirrors Config with pointers so keys present in the file can be
// told apart from zero values.
type yamlConfig struct {
	Tool             *string  `yaml:"tool"`
	Manifest         *string  `yaml:"manifest"`
	OutputDir        *string  `yaml:"output_dir"`
	Release          *bool    `yaml:"release"`
	Doc              *bool    `yaml:"doc"`
	All              *bool    `yaml:"all"`
	SkipNested       *bool    `yaml:"skip_nested"`
	ExcludeDirs      []string `yaml:"exclude_dirs"`
	PruneBuildOutput *bool    `yaml:"prune_build_output"`
	BundleExtensions []string `yaml:"bundle_extensions"`
	Jobs             *int     `yaml:"jobs"`
	DryRun           *bool    `yaml:"dry_run"`
	LogLevel         *string  `yaml:"log_level"`
	LogDir           *string  `yaml:"log_dir"`
	NoColor          *bool    `yaml:"no_color"`
	Lock             *bool    `yaml:"lock"`
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&cfg.Tool, y.Tool)
	setString(&cfg.Manifest, y.Manifest)
	setString(&cfg.OutputDir, y.OutputDir)
	setBool(&cfg.Release, y.Release)
	setBool(&cfg.Doc, y.Doc)
	setBool(&cfg.All, y.All)
	setBool(&cfg.SkipNested, y.SkipNested)
	setBool(&cfg.PruneBuildOutput, y.PruneBuildOutput)
	setBool(&cfg.DryRun, y.DryRun)
	setBool(&cfg.NoColor, y.NoColor)
	setBool(&cfg.Lock, y.Lock)
	setString(&cfg.LogLevel, y.LogLevel)
	setString(&cfg.LogDir, y.LogDir)
	if y.Jobs != nil {
		cfg.Jobs = *y.Jobs
	}
	if y.ExcludeDirs != nil {
		cfg.ExcludeDirs = y.ExcludeDirs
	}
	if y.BundleExtensions != nil {
		cfg.BundleExtensions = y.BundleExtensions
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .rclean/config.yaml in dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigPath))
}

// FlagOverrides holds command-line values. Nil fields were not given and
// leave the loaded configuration untouched.
type FlagOverrides struct {
	Release     *bool
	Doc         *bool
	All         *bool
	SkipNested  *bool
	ExcludeDirs []string
	Jobs        *int
	DryRun      *bool
	LogLevel    *string
	LogDir      *string
	NoColor     *bool
	NoLock      *bool
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(f FlagOverrides) {
	setBool(&c.Release, f.Release)
	setBool(&c.Doc, f.Doc)
	setBool(&c.All, f.All)
	setBool(&c.SkipNested, f.SkipNested)
	setBool(&c.DryRun, f.DryRun)
	setBool(&c.NoColor, f.NoColor)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.LogDir, f.LogDir)
	if f.Jobs != nil {
		c.Jobs = *f.Jobs
	}
	if len(f.ExcludeDirs) > 0 {
		// naming directories to exclude only makes sense with the rule on
		c.ExcludeDirs = f.ExcludeDirs
		c.SkipNested = true
	}
	if f.NoLock != nil {
		c.Lock = !*f.NoLock
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tool) == "" {
		return fmt.Errorf("tool cannot be empty")
	}
	if c.Manifest == "" || strings.ContainsRune(c.Manifest, filepath.Separator) {
		return fmt.Errorf("manifest must be a plain file name, got %q", c.Manifest)
	}
	if c.OutputDir == "" || strings.ContainsRune(c.OutputDir, filepath.Separator) {
		return fmt.Errorf("output_dir must be a plain directory name, got %q", c.OutputDir)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.SkipNested && len(c.excludeNames()) == 0 {
		return fmt.Errorf("skip_nested needs at least one exclude_dirs entry")
	}
	return nil
}

// Resolve checks root and freezes the configuration into a RunConfig.
// The stored root is absolute with symlinks resolved, so the walk, the
// nested-exclusion rule and the run lock all see the same path.
// A missing or non-directory root is a *RootError.
func (c *Config) Resolve(root string) (*models.RunConfig, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, &RootError{Path: root, Err: err}
	}

	var exclude []string
	if c.SkipNested {
		exclude = c.excludeNames()
	}

	return models.NewRunConfig(models.RunConfigOptions{
		Root:        resolved,
		Release:     c.Release,
		Doc:         c.Doc,
		All:         c.All,
		DryRun:      c.DryRun,
		ExcludeDirs: exclude,
		Tool:        c.Tool,
		Manifest:    c.Manifest,
		OutputDir:   c.OutputDir,
		Jobs:        c.Jobs,
	}), nil
}

func (c *Config) excludeNames() []string {
	var names []string
	for _, n := range c.ExcludeDirs {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
