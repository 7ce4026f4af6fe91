package notifications

import (
	"context"
)

// LiveEventNotification is the live event type carrying a new notification.
const LiveEventNotification = "notification"

// LiveChannel pushes real-time events to a user's connected sessions.
// Delivery is best effort: an error only means the push was not handed off.
type LiveChannel interface {
	Send(ctx context.Context, userID, eventType string, data any) error
}

// EmailGateway sends transactional notification emails.
// link is a path relative to the application; recipientName may be empty.
type EmailGateway interface {
	SendNotificationEmail(ctx context.Context, to, title, message, link, recipientName string) error
}

// NoOpLiveChannel discards every event.
// Useful for testing or when real-time delivery is not needed.
type NoOpLiveChannel struct{}

// Send does nothing and returns nil.
func (NoOpLiveChannel) Send(ctx context.Context, userID, eventType string, data any) error {
	return nil
}
