package bootstrap

import (
	"log/slog"

	"blib-backend/internal/infra/notify"
	"blib-backend/internal/pkg/config"
	"blib-backend/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier picks the SMTP adapter when a relay is configured and falls
// back to the log adapter otherwise.
func NewNotifier(cfg config.Config, logger *slog.Logger) commands.Notifier {
	if cfg.SMTP.Enabled() {
		return notify.NewSMTPNotifier(cfg.SMTP, logger)
	}
	logger.Info("no SMTP relay configured, notifications go to the log")
	return notify.NewLogNotifier(logger)
}
