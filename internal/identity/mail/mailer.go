// Package mail delivers outbound notification email. Delivery is
// fire-and-forget from the caller's point of view: the reset endpoint logs a
// failure and still answers the client, so a flaky relay can never be used to
// probe which addresses exist.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/astroline/identity/pkg/slogx"
)

// Notifier sends account email to a subject's registered address.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, token string, ttl time.Duration) error
}

const resetSubject = "Password Reset"

const resetBody = "We have received a request to reset your account's password. " +
	"The token to include with your password change request is \n\n%s\n\n" +
	"The given token will expire %s after it is issued. " +
	"If you did not send this request, please ignore this email."

// SMTPNotifier delivers through a plain SMTP relay.
type SMTPNotifier struct {
	Addr string // host:port of the relay
	From string
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to, token string, ttl time.Duration) error {
	body := fmt.Sprintf(resetBody, token, formatTTL(ttl))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.From, to, resetSubject, body)

	if err := smtp.SendMail(n.Addr, nil, n.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: send reset to %s: %w", to, err)
	}
	return nil
}

// LogNotifier writes the email to the structured log instead of sending it.
// Used in dev so the reset flow works without a relay.
type LogNotifier struct{}

func (LogNotifier) SendPasswordReset(ctx context.Context, to, token string, ttl time.Duration) error {
	slogx.FromContext(ctx).Info("password reset email (dev notifier)",
		"to", to,
		"token", token,
		"expires_in", ttl.String(),
	)
	return nil
}

func formatTTL(ttl time.Duration) string {
	if ttl%(24*time.Hour) == 0 {
		days := int(ttl / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return ttl.String()
}
