package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/rclean/internal/cleaner"
	"github.com/harrison/rclean/internal/config"
	"github.com/harrison/rclean/internal/executor"
	"github.com/harrison/rclean/internal/filelock"
	"github.com/harrison/rclean/internal/logger"
	"github.com/harrison/rclean/internal/models"
	"github.com/harrison/rclean/internal/walker"
)

// newRunner builds the process runner for clean actions. Tests replace it.
var newRunner = func() cleaner.Runner { return cleaner.ExecRunner{} }

// runClean implements the root command
func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// fatal before anything is walked or printed
	runCfg, err := cfg.Resolve(args[0])
	if err != nil {
		return err
	}

	if cfg.Lock {
		lock, err := filelock.AcquireRunLock(runCfg.Root())
		if err != nil {
			return err
		}
		defer lock.Unlock()
	}

	var consoleLog *logger.ConsoleLogger
	if cfg.NoColor {
		consoleLog = logger.NewConsoleLoggerWithColor(cmd.OutOrStdout(), cfg.LogLevel, false)
	} else {
		consoleLog = logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	}

	cl := cleaner.New(runCfg, newRunner())
	orch := executor.NewOrchestrator(runCfg, buildFilter(cfg), cl, nil)

	loggers := []executor.Logger{consoleLog}
	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel, orch.RunID())
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}
	orch.SetLogger(&multiLogger{loggers: loggers})

	consoleLog.LogDebug(fmt.Sprintf("Running %q in projects under %s on %d worker(s)", cl.Command(), runCfg.Root(), orch.Workers()))
	if runCfg.SkipNested() {
		consoleLog.LogDebug("Skipping projects under: " + strings.Join(runCfg.ExcludeDirs(), ", "))
	}

	_, err = orch.Run(context.Background())
	if errors.Is(err, executor.ErrAborted) {
		return err
	}
	if err != nil {
		return fmt.Errorf("clean run failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file and merges the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	var o config.FlagOverrides
	o.Release = changedBool(cmd, "release")
	o.Doc = changedBool(cmd, "doc")
	o.All = changedBool(cmd, "all")
	o.SkipNested = changedBool(cmd, "skip-nested")
	o.DryRun = changedBool(cmd, "dry-run")
	o.NoColor = changedBool(cmd, "no-color")
	o.NoLock = changedBool(cmd, "no-lock")

	if flags.Changed("exclude") {
		o.ExcludeDirs, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("jobs") {
		jobs, _ := flags.GetInt("jobs")
		o.Jobs = &jobs
	}
	if flags.Changed("log-dir") {
		logDir, _ := flags.GetString("log-dir")
		o.LogDir = &logDir
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		level = strings.ToLower(strings.TrimSpace(level))
		o.LogLevel = &level
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		debug := "debug"
		o.LogLevel = &debug
	}

	cfg.MergeWithFlags(o)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// buildFilter assembles the pruning rules shared by the walk and selector.
func buildFilter(cfg *config.Config) *walker.Filter {
	filter := walker.DefaultFilter()
	if len(cfg.BundleExtensions) > 0 {
		filter = filter.With(walker.BundleRule(cfg.BundleExtensions...))
	}
	if cfg.PruneBuildOutput {
		filter = filter.With(walker.SkipBuildOutputRule(cfg.Manifest, cfg.OutputDir))
	}
	return filter
}

// multiLogger implements executor.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []executor.Logger
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogResult forwards to all loggers and returns the last error
func (ml *multiLogger) LogResult(result models.CleanResult) error {
	var lastErr error
	for _, l := range ml.loggers {
		if err := l.LogResult(result); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (ml *multiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range ml.loggers {
		l.LogSummary(summary)
	}
}
