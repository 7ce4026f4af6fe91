package notifications

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotificationNotFound is returned when a notification does not exist
	// or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrRecipientNotFound is returned by storage when the recipient user does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrCompanyNotFound is returned by the directory for unknown companies.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid notification input")
)

// RecipientError is a failure to notify one recipient of an event.
type RecipientError struct {
	RecipientID string
	Err         error
}

func (e RecipientError) Error() string {
	return fmt.Sprintf("recipient %s: %v", e.RecipientID, e.Err)
}

func (e RecipientError) Unwrap() error {
	return e.Err
}

// FanoutError aggregates per-recipient failures of a single event.
// Notifications for the other recipients were still created.
type FanoutError struct {
	Event    string
	Failures []RecipientError
}

func (e *FanoutError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("notify %s: %d recipient(s) failed: %s", e.Event, len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every cause to errors.Is and errors.As.
func (e *FanoutError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// FailedRecipients returns the ids of recipients that were not notified.
func (e *FanoutError) FailedRecipients() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.RecipientID)
	}
	return ids
}
