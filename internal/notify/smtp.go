package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

const defaultSMTPPort = 587

// Candidate variable names, in lookup order.
var (
	hostVars     = []string{"SMTP_HOST", "EMAIL_HOST"}
	portVars     = []string{"SMTP_PORT", "EMAIL_PORT"}
	usernameVars = []string{"SMTP_USERNAME", "SMTP_USER", "EMAIL_USER"}
	passwordVars = []string{"SMTP_PASSWORD", "EMAIL_PASSWORD", "EMAIL_APP_PASSWORD"}
	fromVars     = []string{"SMTP_FROM", "EMAIL_FROM"}
)

// CredentialSource resolves a value from the first set candidate name. config.Resolver implements it.
type CredentialSource interface {
	Get(names ...string) (string, bool)
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig is the transport configuration resolved for one send.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through gomail. Credentials are resolved on every Send so that
// values set after startup are picked up. gomail dials with a 10s timeout; there is no retry.
type SMTPSender struct {
	creds   CredentialSource
	logger  *zerolog.Logger
	newDial func(cfg SMTPConfig) mailDialer
}

// NewSMTPSender returns a Sender resolving SMTP settings from creds.
func NewSMTPSender(creds CredentialSource, logger *zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		creds:  creds,
		logger: logger,
		newDial: func(cfg SMTPConfig) mailDialer {
			return gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		},
	}
}

// ResolveConfig reads the SMTP settings. Missing host, username or password yields ErrNotConfigured.
func (s *SMTPSender) ResolveConfig() (SMTPConfig, error) {
	host, _ := s.creds.Get(hostVars...)
	user, _ := s.creds.Get(usernameVars...)
	pass, _ := s.creds.Get(passwordVars...)
	if host == "" || user == "" || pass == "" {
		return SMTPConfig{}, ErrNotConfigured
	}

	port := defaultSMTPPort
	if raw, ok := s.creds.Get(portVars...); ok {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 || p > 65535 {
			return SMTPConfig{}, fmt.Errorf("%w: invalid SMTP port %q", ErrNotConfigured, raw)
		}
		port = p
	}

	from, ok := s.creds.Get(fromVars...)
	if !ok {
		from = user
	}
	return SMTPConfig{Host: host, Port: port, Username: user, Password: pass, From: from}, nil
}

// Send delivers a plain-text message to a single recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	cfg, err := s.ResolveConfig()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Cause: err}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.newDial(cfg).DialAndSend(msg); err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(err).Str("smtp_host", cfg.Host).Int("smtp_port", cfg.Port).Msg("smtp send failed")
		}
		return &DeliveryError{Cause: err}
	}
	return nil
}
