package email

import (
	"context"
	"crypto/tls"
	"errors"

	"github.com/rs/zerolog/log"
	mail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	SkipTLSVerify bool
}

// SMTPTransport sends plain-text mail through gomail, one dial per message.
type SMTPTransport struct {
	dialer *mail.Dialer
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	if cfg.SkipTLSVerify {
		log.Warn().Str("host", cfg.Host).Msg("TLS certificate verification is disabled")
	}

	return &SMTPTransport{dialer: d}
}

// Send returns the server's rejection as the error text.
func (t *SMTPTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return t.dialer.DialAndSend(m)
}
