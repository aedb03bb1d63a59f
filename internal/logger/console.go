// Package logger reports clean outcomes, warnings and the run summary.
//
// Every message is formatted in full and written with a single Write call
// while holding the logger's mutex, so lines from concurrent workers never
// interleave. Implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/rclean/internal/models"
)

// ConsoleLogger writes human-readable progress to a writer.
// Color output is enabled automatically for terminals unless NO_COLOR is set.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return NewConsoleLoggerWithColor(writer, logLevel, isTerminal(writer))
}

// NewConsoleLoggerWithColor creates a ConsoleLogger with color explicitly on
// or off.
func NewConsoleLoggerWithColor(writer io.Writer, logLevel string, useColor bool) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: useColor,
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor && (f == os.Stdout || f == os.Stderr) {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.logWithLevel("TRACE", message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.logWithLevel("DEBUG", message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.logWithLevel("INFO", message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.logWithLevel("WARN", message) }
func (cl *ConsoleLogger) LogError(message string) { cl.logWithLevel("ERROR", message) }

// logWithLevel logs a message at the specified level if filtering allows it.
// Format: "[HH:MM:SS] [LEVEL] <message>"
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !allows(cl.logLevel, strings.ToLower(level)) {
		return
	}

	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), label, message))
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

// LogResult writes the one-line outcome of a clean attempt.
//
//	OK at <path>
//	Error! In: <path> (<message>)
//	Would clean <path>
//
// Outcomes are shown at every level except "error", which keeps only failures.
func (cl *ConsoleLogger) LogResult(result models.CleanResult) error {
	if cl.writer == nil {
		return nil
	}
	if (result.Success || result.Skipped) && !allows(cl.logLevel, "warn") {
		return nil
	}

	var line string
	switch result.Status() {
	case models.StatusSkipped:
		line = fmt.Sprintf("Would clean %s", cl.path(result.Path))
	case models.StatusOK:
		line = fmt.Sprintf("%s at %s", cl.paint(color.New(color.FgGreen, color.Bold), "OK"), cl.path(result.Path))
	default:
		line = fmt.Sprintf("%s In: %s", cl.paint(color.New(color.FgRed, color.Bold), "Error!"), cl.path(result.Path))
		if result.Message != "" {
			line += fmt.Sprintf(" (%s)", result.Message)
		}
	}

	return cl.write(fmt.Sprintf("[%s] %s\n", timestamp(), line))
}

// LogSummary writes the run summary block at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil || !allows(cl.logLevel, "info") {
		return
	}

	ts := timestamp()
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, cl.paint(color.New(color.Bold), "=== Clean Summary ==="))
	fmt.Fprintf(&b, "[%s] Scanned directories: %d\n", ts, summary.Candidates)
	fmt.Fprintf(&b, "[%s] Projects selected: %d\n", ts, summary.Selected)
	if summary.Skipped > 0 {
		fmt.Fprintf(&b, "[%s] Dry run, not cleaned: %d\n", ts, summary.Skipped)
	}
	fmt.Fprintf(&b, "[%s] %s\n", ts, cl.paint(color.New(color.FgGreen), fmt.Sprintf("Cleaned: %d", summary.Cleaned)))
	if summary.Failed > 0 {
		fmt.Fprintf(&b, "[%s] %s\n", ts, cl.paint(color.New(color.FgRed), fmt.Sprintf("Failed: %d", summary.Failed)))
	} else {
		fmt.Fprintf(&b, "[%s] Failed: 0\n", ts)
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(&b, "[%s] %s\n", ts, cl.paint(color.New(color.FgYellow), fmt.Sprintf("Warnings: %d", summary.Warnings)))
	}
	if summary.Aborted {
		fmt.Fprintf(&b, "[%s] %s\n", ts, cl.paint(color.New(color.FgYellow), fmt.Sprintf("Aborted: %d project(s) not dispatched", summary.NotDispatched)))
	}
	if summary.ReclaimedBytes > 0 {
		fmt.Fprintf(&b, "[%s] Reclaimed: %s\n", ts, FormatBytes(summary.ReclaimedBytes))
	}
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(summary.Duration))

	cl.write(b.String())
}

func (cl *ConsoleLogger) path(p string) string {
	return cl.paint(color.New(color.FgCyan, color.Bold, color.Underline), p)
}

func (cl *ConsoleLogger) paint(c *color.Color, s string) string {
	if !cl.colorOutput {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (cl *ConsoleLogger) write(s string) error {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	_, err := io.WriteString(cl.writer, s)
	return err
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "0s", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// FormatBytes renders a byte count with binary units, e.g. "1.5 GiB".
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
