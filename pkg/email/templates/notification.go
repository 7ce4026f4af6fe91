package templates

import "strings"

// NotificationData is the content of a notification email.
type NotificationData struct {
	RecipientName string
	Title         string
	Message       string
	// ActionURL is an absolute URL; the call-to-action button is omitted when empty.
	ActionURL   string
	ActionLabel string
	ProductName string
}

func (d NotificationData) product() string {
	if d.ProductName == "" {
		return "Dashboard 360"
	}
	return d.ProductName
}

func (d NotificationData) greeting() string {
	if d.RecipientName == "" {
		return "Hello,"
	}
	return "Hello, " + d.RecipientName + "!"
}

func (d NotificationData) actionLabel() string {
	if d.ActionLabel == "" {
		return "Open in " + d.product()
	}
	return d.ActionLabel
}

// messageLines splits the message so each line break renders as <br>.
func (d NotificationData) messageLines() []string {
	return strings.Split(strings.ReplaceAll(d.Message, "\r\n", "\n"), "\n")
}
