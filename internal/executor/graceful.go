package executor

// graceful.go holds the warn-and-continue helpers used wherever a failure
// must be reported without stopping the run.

// GracefulWarn logs a warning if logger is non-nil.
func GracefulWarn(logger Logger, message string) {
	if logger != nil {
		logger.LogWarn(message)
	}
}

// GracefulInfo logs an info message if logger is non-nil.
func GracefulInfo(logger Logger, message string) {
	if logger != nil {
		logger.LogInfo(message)
	}
}

// GracefulDebug logs a debug message if logger is non-nil.
func GracefulDebug(logger Logger, message string) {
	if logger != nil {
		logger.LogDebug(message)
	}
}
