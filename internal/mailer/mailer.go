// Package mailer delivers verification and password-reset codes. The
// core only depends on the Mailer interface; delivery itself is an
// external collaborator.
package mailer

import "context"

type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendPasswordResetCode(ctx context.Context, to, code string) error
}
