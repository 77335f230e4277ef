package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes subscriber messages to the application log. It stands in
// for the SMTP relay in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, email, subject, body string) error {
	n.logger.Info("subscriber notification",
		"to", email, "subject", subject, "body", body)
	return nil
}
