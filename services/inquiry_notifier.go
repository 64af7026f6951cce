package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"catalog-service/models"
	"catalog-service/sender"

	"go.uber.org/zap"
)

//go:embed "templates"
var templateFS embed.FS

const notifyTimeout = 30 * time.Second

// InquiryNotifier emails the administrator whenever a customer submits an
// inquiry.
type InquiryNotifier struct {
	sender  sender.EmailSender
	to      string
	brand   string
	html    *htmltemplate.Template
	text    *texttemplate.Template
	timeout time.Duration
}

type notificationData struct {
	*models.Inquiry
	Brand string
}

func NewInquiryNotifier(s sender.EmailSender, adminEmail, brand string) (*InquiryNotifier, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/inquiry_notification.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/inquiry_notification.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &InquiryNotifier{
		sender:  s,
		to:      adminEmail,
		brand:   brand,
		html:    html,
		text:    text,
		timeout: notifyTimeout,
	}, nil
}

// Render builds the notification email for inquiry.
func (n *InquiryNotifier) Render(inquiry *models.Inquiry) (sender.Email, error) {
	data := notificationData{Inquiry: inquiry, Brand: n.brand}

	var html, text bytes.Buffer
	if err := n.html.Execute(&html, data); err != nil {
		return sender.Email{}, fmt.Errorf("render html: %w", err)
	}
	if err := n.text.Execute(&text, data); err != nil {
		return sender.Email{}, fmt.Errorf("render text: %w", err)
	}
	return sender.Email{
		To:      n.to,
		Subject: "New Inquiry from " + inquiry.Name,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// Notify renders and sends synchronously. Failures are logged and returned.
func (n *InquiryNotifier) Notify(ctx context.Context, inquiry *models.Inquiry) error {
	email, err := n.Render(inquiry)
	if err != nil {
		zap.L().Error("failed to render inquiry notification", zap.String("inquiry_id", inquiry.ID), zap.Error(err))
		return err
	}
	res, err := n.sender.SendEmail(ctx, email)
	if err != nil {
		zap.L().Error("failed to send inquiry notification", zap.String("inquiry_id", inquiry.ID), zap.Error(err))
		return err
	}
	if res.MessageID != "" {
		zap.L().Info("inquiry notification sent", zap.String("inquiry_id", inquiry.ID), zap.String("message_id", res.MessageID))
	}
	return nil
}

// NotifyAsync sends in the background so the request never waits on SMTP.
func (n *InquiryNotifier) NotifyAsync(inquiry models.Inquiry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		_ = n.Notify(ctx, &inquiry)
	}()
}
