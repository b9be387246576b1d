package shared

import "log/slog"

// Notifier is the user-visible notification channel. Every operation outcome
// that matters to the operator is mirrored here in addition to being
// returned to the caller.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier reports notifications through the structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Success logs an informational notification.
func (n *LogNotifier) Success(message string) {
	n.logger.Info(message, slog.String("notice", "success"))
}

// Error logs an error notification.
func (n *LogNotifier) Error(message string) {
	n.logger.Error(message, slog.String("notice", "error"))
}
