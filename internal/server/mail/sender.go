// Package mail delivers out-of-band notifications to account holders.
// Delivery is best effort: the recovery flow treats a failed send as a
// logged warning, never as an operation failure.
package mail

import (
	"context"
	"fmt"

	"github.com/datalyst-app/authd/internal/logging"
)

// Sender delivers a single plain-text message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RecoveryMessage builds the subject and body of a password-reset mail
// carrying the given one-time code.
func RecoveryMessage(code string) (subject, body string) {
	return "Password Reset OTP", fmt.Sprintf("Your OTP for password reset is: %s", code)
}

// LogSender is a development fallback used when no SMTP transport is
// configured. It logs the message instead of delivering it.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info(ctx, "smtp not configured, logging message instead", "to", to, "subject", subject)
	return nil
}
