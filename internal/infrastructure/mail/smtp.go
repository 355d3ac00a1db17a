// Package mail delivers outbound email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/projectlv/accounts/internal/core/ports"
)

const defaultSendTimeout = 15 * time.Second

// ErrNotConfigured is returned by the disabled mailer.
var ErrNotConfigured = errors.New("email transport not configured")

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS "mandatory", "opportunistic" or "none".
	TLS     string
	Timeout time.Duration
}

// SMTPMailer implements ports.Mailer against an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds a client for cfg. No connection is opened until Send.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	if cfg.From == "" {
		return nil, errors.New("smtp: sender address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func tlsPolicy(s string) gomail.TLSPolicy {
	switch s {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}

// Send delivers msg and returns only after the relay accepted or refused it.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.EmailMessage) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg ports.EmailMessage) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return out, nil
}

// DisabledMailer refuses every message. It stands in when no SMTP host is
// configured so reset requests fail cleanly instead of silently.
type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, ports.EmailMessage) error {
	return ErrNotConfigured
}
