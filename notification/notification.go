// Package notification raises desktop notifications for events the user
// must not miss, such as an emergency stop.
package notification

import (
	"errors"
	"log/slog"
)

// ErrUnsupported is returned on platforms without a notification service.
var ErrUnsupported = errors.New("desktop notifications not supported")

// Notifier sends notifications under one application name.
type Notifier struct {
	appName string
	logger  *slog.Logger
}

func New(appName string, logger *slog.Logger) *Notifier {
	return &Notifier{appName: appName, logger: logger}
}

// NotifyAsync sends without blocking the caller. Failures are logged.
func (n *Notifier) NotifyAsync(title, body string) {
	go func() {
		if err := n.Notify(title, body); err != nil && n.logger != nil && !errors.Is(err, ErrUnsupported) {
			n.logger.Warn("desktop notification failed", "error", err)
		}
	}()
}
