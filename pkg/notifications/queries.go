package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// GetForUser returns the user's notifications, newest first.
// A non-positive limit falls back to DefaultPageSize; limits above MaxPageSize are capped.
func (d *Dispatcher) GetForUser(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultPageSize
	case opts.Limit > MaxPageSize:
		opts.Limit = MaxPageSize
	}
	opts.Offset = max(opts.Offset, 0)

	list, err := d.storage.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// GetUnreadCount returns how many unread notifications the user has.
func (d *Dispatcher) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := d.storage.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one notification as read. Notifications owned by another
// user are reported as ErrNotificationNotFound.
func (d *Dispatcher) MarkAsRead(ctx context.Context, notifID, userID string) (*Notification, error) {
	notif, err := d.storage.Get(ctx, userID, notifID)
	if err != nil {
		return nil, err
	}
	if notif.Read {
		return notif, nil
	}

	if _, err := d.storage.MarkRead(ctx, userID, notifID); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	notif.MarkAsRead()
	return notif, nil
}

// MarkAllAsRead marks every unread notification of the user as read and
// returns how many changed.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	count, err := d.storage.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	d.logger.LogAttrs(ctx, slog.LevelDebug, "Marked all notifications as read",
		logger.UserID(userID),
		logger.Count(count),
	)
	return count, nil
}

// Delete removes one notification. Notifications owned by another user are
// reported as ErrNotificationNotFound.
func (d *Dispatcher) Delete(ctx context.Context, notifID, userID string) error {
	removed, err := d.storage.Delete(ctx, userID, notifID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if removed == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
