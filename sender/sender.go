package sender

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Email is one outgoing message. Text is sent as the plain-text alternative
// of HTML.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) (SendResult, error)
}

// NoopSender stands in when SMTP is not configured. It logs and drops mail.
type NoopSender struct{}

func (NoopSender) SendEmail(_ context.Context, email Email) (SendResult, error) {
	zap.L().Info("email not configured, skipping", zap.String("subject", email.Subject))
	return SendResult{}, nil
}
