package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/rclean/internal/models"
)

// FileLogger writes a plain-text run log to a directory.
// Each run gets its own run-YYYYMMDD-HHMMSS.log and latest.log is pointed at
// it. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithDirAndLevel creates the log directory if needed, opens a
// timestamped run log and writes a header carrying runID.
func NewFileLoggerWithDirAndLevel(logDir, logLevel, runID string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== rclean Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }
func (fl *FileLogger) LogInfo(message string)  { fl.logWithLevel("INFO", message) }
func (fl *FileLogger) LogWarn(message string)  { fl.logWithLevel("WARN", message) }

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !allows(fl.logLevel, strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogResult records every outcome regardless of level, with its duration.
func (fl *FileLogger) LogResult(result models.CleanResult) error {
	line := fmt.Sprintf("[%s] [%s] %s (%s)", timestamp(), result.Status(), result.Path, formatDuration(result.Duration))
	if result.Message != "" {
		line += ": " + result.Message
	}
	return fl.writeRunLog(line + "\n")
}

// LogSummary appends the final statistics.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	status := "SUCCESS"
	switch {
	case summary.Aborted:
		status = "ABORTED"
	case summary.Failed > 0 && summary.Cleaned == 0:
		status = "FAILED"
	case summary.Failed > 0:
		status = "PARTIAL"
	}

	ts := timestamp()
	fl.writeRunLog(fmt.Sprintf(
		"\n[%s] === CLEAN SUMMARY ===\n"+
			"[%s] Root:         %s\n"+
			"[%s] Candidates:   %d\n"+
			"[%s] Selected:     %d\n"+
			"[%s] Cleaned:      %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Warnings:     %d\n"+
			"[%s] Reclaimed:    %s\n"+
			"[%s] Total time:   %.1fs\n"+
			"[%s] Status:       %s\n",
		ts,
		ts, summary.Root,
		ts, summary.Candidates,
		ts, summary.Selected,
		ts, summary.Cleaned,
		ts, summary.Failed,
		ts, summary.Warnings,
		ts, FormatBytes(summary.ReclaimedBytes),
		ts, summary.Duration.Seconds(),
		ts, status,
	))
}

// Close flushes and closes the run log.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

func (fl *FileLogger) writeRunLog(s string) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return fmt.Errorf("run log is closed")
	}
	_, err := fl.runLog.WriteString(s)
	return err
}
