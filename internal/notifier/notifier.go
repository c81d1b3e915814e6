// Package notifier dispatches best-effort run notifications.
package notifier

import "context"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier sends a notification. Failure to notify must never fail the
// pipeline run; callers log and discard the returned error.
type Notifier interface {
	Notify(ctx context.Context, level Level, message, details string) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) Notify(context.Context, Level, string, string) error { return nil }
