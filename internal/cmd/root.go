package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for rclean
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rclean [flags] <path>",
		Short: "Clean build artifacts of every project under a directory, recursively",
		Long: `rclean walks a directory tree, finds project directories (a Cargo.toml
manifest next to a target/ build-output directory) and runs "cargo clean"
in each one, printing an OK or Error line per project.

Hidden directories, symbolic links and platform bundles (.app, .rtfd on
macOS) are never descended into. A failing clean never stops the rest of
the run. Configuration is loaded from .rclean/config.yaml if present;
CLI flags override configuration file settings.

Examples:
  rclean ~/code                  # clean every built project
  rclean -r ~/code               # cargo clean --release
  rclean -d ~/code               # cargo clean --doc
  rclean -a ~/code               # also projects without target/
  rclean --skip-nested ~/code    # ignore projects under examples/, tests/, benches/
  rclean -n ~/code               # list what would be cleaned
  rclean -j 4 --log-dir ./logs ~/code`,
		Version:      Version,
		Args:         cobra.ExactArgs(1),
		RunE:         runClean,
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("release", "r", false, "Pass --release to the clean subcommand")
	cmd.Flags().BoolP("doc", "d", false, "Clean only documentation artifacts (--doc)")
	cmd.Flags().BoolP("all", "a", false, "Clean every project with a manifest, built or not")
	cmd.Flags().Bool("skip-nested", false, "Skip projects nested under examples, tests or benches directories")
	cmd.Flags().StringSlice("exclude", nil, "Directory names for --skip-nested (implies --skip-nested)")
	cmd.Flags().IntP("jobs", "j", 0, "Concurrent clean workers (0 = one per CPU)")
	cmd.Flags().BoolP("dry-run", "n", false, "List selected projects without cleaning them")
	cmd.Flags().String("config", "", "Path to config file (default: .rclean/config.yaml)")
	cmd.Flags().String("log-dir", "", "Also write a run log to this directory")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().BoolP("verbose", "v", false, "Show debug output (same as --log-level debug)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("no-lock", false, "Do not take the per-directory run lock")

	return cmd
}
