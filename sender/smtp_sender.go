package sender

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "gopkg.in/mail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS (usually port 465) instead of STARTTLS.
	Secure   bool
	FromName string
}

// Configured reports whether enough settings are present to send mail.
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

type SMTPSender struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("EMAIL_USER and EMAIL_PASS are required")
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	d.Timeout = 10 * time.Second
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	if !cfg.Secure {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return &SMTPSender{cfg: cfg, dialer: d}, nil
}

func (s *SMTPSender) message(email Email) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Username, s.cfg.FromName)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	if email.Text != "" {
		m.SetBody("text/plain", email.Text)
		if email.HTML != "" {
			m.AddAlternative("text/html", email.HTML)
		}
	} else {
		m.SetBody("text/html", email.HTML)
	}
	return m
}

func (s *SMTPSender) SendEmail(ctx context.Context, email Email) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	if err := s.dialer.DialAndSend(s.message(email)); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}
	now := time.Now()
	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", now.UnixNano()),
		SentAt:    now,
	}, nil
}
