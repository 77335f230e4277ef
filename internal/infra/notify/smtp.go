package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"blib-backend/internal/pkg/config"
)

// SMTPNotifier delivers subscriber messages through an SMTP relay. Delivery
// runs on its own goroutine so a slow relay never blocks the scheduler loop;
// failures are logged and dropped.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) Notify(ctx context.Context, email, subject, body string) error {
	go func() {
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
			n.cfg.From, email, subject, body)

		addr := n.cfg.Host + ":" + n.cfg.Port
		var auth smtp.Auth
		if n.cfg.Username != "" {
			auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		}

		if err := smtp.SendMail(addr, auth, n.cfg.From, []string{email}, []byte(msg)); err != nil {
			n.logger.Error("failed to send notification mail",
				"to", email, "subject", subject, "error", err.Error())
			return
		}
		n.logger.Info("notification mail sent", "to", email, "subject", subject)
	}()
	return nil
}
