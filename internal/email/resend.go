package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

var _ model.EmailDispatcher = (*Resend)(nil)

// Resend delivers token emails through the Resend API.
type Resend struct {
	client    *resend.Client
	from      string
	clientURL string
	logger    *logger.Logger
}

func NewResend(apiKey, from, clientURL string, logger *logger.Logger) *Resend {
	return &Resend{
		client:    resend.NewClient(apiKey),
		from:      from,
		clientURL: clientURL,
		logger:    logger,
	}
}

// Send mails the link for the given token kind.
func (r *Resend) Send(ctx context.Context, kind model.EmailKind, to string, token string) error {
	subject, html := r.render(kind, token)

	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	r.logger.Info("email sent", "kind", kind, "to", to)
	return nil
}

func (r *Resend) render(kind model.EmailKind, token string) (subject, html string) {
	switch kind {
	case model.EmailVerification:
		url := fmt.Sprintf("%s/verify-email?token=%s", r.clientURL, token)
		return "Verify your email", fmt.Sprintf(
			`<h1>Verify your email</h1>
			<p>Thanks for signing up! Click the link below to verify your email address. The link expires in 24 hours.</p>
			<p><a href="%s">Verify Email</a></p>`, url)
	case model.EmailPasswordReset:
		url := fmt.Sprintf("%s/reset-password?token=%s", r.clientURL, token)
		return "Reset your password", fmt.Sprintf(
			`<h1>Reset your password</h1>
			<p>We received a request to reset your password. Click the link below to set a new one. The link expires in 1 hour.</p>
			<p><a href="%s">Reset Password</a></p>`, url)
	case model.EmailChangeConfirm:
		url := fmt.Sprintf("%s/verify-email-change?token=%s", r.clientURL, token)
		return "Confirm your new email", fmt.Sprintf(
			`<h1>Confirm your new email</h1>
			<p>Click the link below to confirm this address for your account. The link expires in 24 hours.</p>
			<p><a href="%s">Confirm Email</a></p>`, url)
	default:
		return "Your token", fmt.Sprintf("<p>Token: %s</p>", token)
	}
}
