package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/email/templates"
)

// NotificationTag is the Postmark tag attached to notification emails.
const NotificationTag = "notification"

// NotificationMailer renders notification emails and hands them to an
// EmailSender. It satisfies notifications.EmailGateway.
type NotificationMailer struct {
	sender      EmailSender
	baseURL     *url.URL
	productName string
}

// NotificationMailerOption configures a NotificationMailer.
type NotificationMailerOption func(*NotificationMailer)

// WithProductName sets the product name shown in the email header.
func WithProductName(name string) NotificationMailerOption {
	return func(m *NotificationMailer) {
		if name != "" {
			m.productName = name
		}
	}
}

// NewNotificationMailer creates a mailer. Relative notification links are
// resolved against baseURL, which must be absolute.
func NewNotificationMailer(sender EmailSender, baseURL string, opts ...NotificationMailerOption) (*NotificationMailer, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be absolute, got %q", ErrInvalidConfig, baseURL)
	}

	m := &NotificationMailer{sender: sender, baseURL: u, productName: "Dashboard 360"}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SendNotificationEmail renders and sends one notification email.
func (m *NotificationMailer) SendNotificationEmail(ctx context.Context, to, title, message, link, recipientName string) error {
	body, err := templates.Render(ctx, templates.Notification(templates.NotificationData{
		RecipientName: recipientName,
		Title:         title,
		Message:       message,
		ActionURL:     m.absolute(link),
		ProductName:   m.productName,
	}))
	if err != nil {
		return fmt.Errorf("%w: render template: %w", ErrFailedToSendEmail, err)
	}

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("[%s] %s", m.productName, title),
		BodyHTML: body,
		Tag:      NotificationTag,
	})
}

func (m *NotificationMailer) absolute(link string) string {
	if link == "" {
		return ""
	}
	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return m.baseURL.ResolveReference(ref).String()
}
