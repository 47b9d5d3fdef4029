package mailer

import (
	"context"
	"log/slog"
)

// LogMailer logs the codes instead of delivering them. Used when no
// Resend API key is configured and in tests.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.Logger.Info("verification code (email delivery disabled)", "to", to, "code", code)
	return nil
}

func (m *LogMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	m.Logger.Info("password reset code (email delivery disabled)", "to", to, "code", code)
	return nil
}
