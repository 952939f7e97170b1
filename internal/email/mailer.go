package email

import (
	"context"
	"fmt"
	"strings"
)

// Service sends account emails.
type Service interface {
	SendVerification(ctx context.Context, email string, token string) error
	SendPasswordReset(ctx context.Context, email string, token string) error
}

type Mailer struct {
	transport Transport
	from      string
	baseURL   string
}

// NewMailer builds links as baseURL + "/api/v1/auth/...".
func NewMailer(transport Transport, from, baseURL string) *Mailer {
	return &Mailer{
		transport: transport,
		from:      from,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (m *Mailer) SendVerification(ctx context.Context, email string, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/confirm/%s", m.baseURL, token)
	body := fmt.Sprintf("Hello,\n\nFollow the link to confirm your email address:\n%s\n", link)
	if err := m.transport.Send(ctx, "Confirm your email", body, m.from, []string{email}); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email string, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/password-reset/%s", m.baseURL, token)
	body := fmt.Sprintf("Hello,\n\nA password reset was requested for your account.\n"+
		"POST your new password to:\n%s\n\nIgnore this email if you did not request it.\n", link)
	if err := m.transport.Send(ctx, "Password reset", body, m.from, []string{email}); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
