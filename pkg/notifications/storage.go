package notifications

import (
	"context"
)

// Storage handles notification persistence and retrieval.
// Every read and write except Create and SetEmailStatus is scoped to the owning user.
type Storage interface {
	// Create stores a new notification. It must fail with ErrRecipientNotFound
	// when the recipient does not exist.
	Create(ctx context.Context, notif Notification) error

	// Get retrieves a single notification owned by userID.
	Get(ctx context.Context, userID, notifID string) (*Notification, error)

	// List returns notifications for a user, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks the given unread notifications of userID as read and returns how many changed.
	MarkRead(ctx context.Context, userID string, notifIDs ...string) (int, error)

	// MarkAllRead marks every unread notification of userID as read and returns how many changed.
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// Delete removes notifications of userID and returns how many were removed.
	Delete(ctx context.Context, userID string, notifIDs ...string) (int, error)

	// CountUnread returns unread count for user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// SetEmailStatus records the outcome of the email path.
	SetEmailStatus(ctx context.Context, notifID string, status EmailStatus) error
}

// ListOptions provides filtering and pagination options for listing notifications.
type ListOptions struct {
	Limit      int  // Maximum number of notifications to return (0 = no limit at storage level)
	Offset     int  // Number of notifications to skip for pagination
	UnreadOnly bool // When true, only return unread notifications
}

// Directory gives read-only access to users and companies for recipient resolution.
type Directory interface {
	// GetRecipient returns ErrRecipientNotFound for unknown users.
	GetRecipient(ctx context.Context, userID string) (*Recipient, error)

	// GetCompany returns ErrCompanyNotFound for unknown companies.
	GetCompany(ctx context.Context, companyID string) (*Company, error)

	// ListRecipients returns users matching the filter in a stable order.
	ListRecipients(ctx context.Context, filter RecipientFilter) ([]Recipient, error)
}

// RecipientFilter narrows ListRecipients. Zero fields do not filter.
type RecipientFilter struct {
	CompanyID string
	Roles     []Role
}

// Matches reports whether r passes the filter.
func (f RecipientFilter) Matches(r Recipient) bool {
	if f.CompanyID != "" && r.CompanyID != f.CompanyID {
		return false
	}
	if len(f.Roles) == 0 {
		return true
	}
	for _, role := range f.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
