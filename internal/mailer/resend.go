package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, "Lakbay Cavite Email Verification", verificationBody(code))
}

func (m *ResendMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, "Lakbay Cavite Password Reset", resetBody(code))
}

func (m *ResendMailer) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func verificationBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #4285f4; text-align: center;">Lakbay Cavite</h1>
			<h2>Verify Your Email Address</h2>
			<p>Thank you for registering with Lakbay Cavite! Use the code below to complete your registration:</p>
			<div style="background-color: #f5f5f5; padding: 10px; text-align: center; border-radius: 5px;">
				<h1 style="color: #4285f4; letter-spacing: 2px;">%s</h1>
			</div>
			<p>The verification code will expire in 10 minutes.</p>
			<p>If you didn't request this verification, please ignore this email.</p>
		</div>`, code)
}

func resetBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h1 style="color: #4285f4; text-align: center;">Lakbay Cavite</h1>
			<h2>Reset Your Password</h2>
			<p>Use the code below to reset your password:</p>
			<div style="background-color: #f5f5f5; padding: 10px; text-align: center; border-radius: 5px;">
				<h1 style="color: #4285f4; letter-spacing: 2px;">%s</h1>
			</div>
			<p>The reset code will expire in 10 minutes.</p>
			<p>If you didn't request a password reset, please ignore this email.</p>
		</div>`, code)
}
