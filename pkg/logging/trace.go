package logging

import "log/slog"

// EnableTrace turns on per-record trace logs. Dry runs enable it.
var EnableTrace = false

// Trace logs a message at INFO level, but only if EnableTrace is true.
// Dry runs report what they would do at the default level.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if EnableTrace {
		logger.Info(msg, args...)
	}
}
