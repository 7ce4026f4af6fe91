package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

const (
	// DefaultPageSize is used by GetForUser when no limit is given.
	DefaultPageSize = 50
	// MaxPageSize caps GetForUser limits.
	MaxPageSize = 100
	// DefaultLowScoreThreshold is the survey score below which CS owners get a low score alert.
	DefaultLowScoreThreshold = 7.0
)

// Dispatcher turns domain events into persisted notifications and pushes
// them through the live channel and email according to user preferences.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	storage           Storage
	directory         Directory
	live              LiveChannel
	email             EmailGateway
	links             Links
	lowScoreThreshold float64
	validate          *validator.Validate
	now               func() time.Time
	logger            *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLiveChannel sets the real-time channel. Without it live pushes are dropped.
func WithLiveChannel(live LiveChannel) DispatcherOption {
	return func(d *Dispatcher) {
		if live != nil {
			d.live = live
		}
	}
}

// WithEmailGateway sets the email gateway. Without it the email path is never attempted.
func WithEmailGateway(email EmailGateway) DispatcherOption {
	return func(d *Dispatcher) {
		d.email = email
	}
}

// WithLinks overrides the link builder used by event helpers.
func WithLinks(links Links) DispatcherOption {
	return func(d *Dispatcher) {
		d.links = links
	}
}

// WithLowScoreThreshold sets the survey score below which a low score alert is raised.
func WithLowScoreThreshold(threshold float64) DispatcherOption {
	return func(d *Dispatcher) {
		d.lowScoreThreshold = threshold
	}
}

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a dispatcher over the given storage and directory.
func NewDispatcher(storage Storage, directory Directory, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:           storage,
		directory:         directory,
		live:              NoOpLiveChannel{},
		links:             DefaultLinks(),
		lowScoreThreshold: DefaultLowScoreThreshold,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		now:               time.Now,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Create persists one notification and runs preference-gated delivery.
// The stored notification is returned even when every delivery channel fails.
// A missing recipient is reported by storage as ErrRecipientNotFound.
func (d *Dispatcher) Create(ctx context.Context, in CreateInput) (*Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := d.validate.StructCtx(ctx, in); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, in.Type)
	}

	notif := Notification{
		ID:          uuid.New().String(),
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Link:        in.Link,
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		DeliveryID:  in.DeliveryID,
		CompanyID:   in.CompanyID,
		EmailStatus: EmailNotAttempted,
		CreatedAt:   d.now(),
	}

	// Store first to ensure persistence even if delivery fails
	if err := d.storage.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	recipient, err := d.directory.GetRecipient(ctx, notif.RecipientID)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Notification stored but recipient lookup failed, skipping delivery",
			logger.NotificationID(notif.ID),
			logger.RecipientID(notif.RecipientID),
			logger.Error(err),
		)
		return &notif, nil
	}

	d.deliver(ctx, &notif, recipient)
	return &notif, nil
}

// deliver pushes notif to the channels the recipient has enabled.
// Failures are logged and never returned.
func (d *Dispatcher) deliver(ctx context.Context, notif *Notification, recipient *Recipient) {
	prefs := recipient.Preferences
	if !prefs.AllowsCategory(notif.Type) {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "Notification category muted by recipient",
			logger.NotificationID(notif.ID),
			logger.RecipientID(recipient.ID),
			logger.NotificationType(notif.Type),
		)
		return
	}

	if prefs.InApp {
		d.pushLive(ctx, notif)
	}

	if prefs.Email && d.email != nil && recipient.Email != "" {
		d.sendEmail(ctx, notif, recipient)
	}
}

func (d *Dispatcher) pushLive(ctx context.Context, notif *Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "Live channel panicked",
				logger.NotificationID(notif.ID),
				logger.RecipientID(notif.RecipientID),
				slog.Any("panic", r),
			)
		}
	}()

	if err := d.live.Send(ctx, notif.RecipientID, LiveEventNotification, *notif); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to push notification to live channel",
			logger.NotificationID(notif.ID),
			logger.RecipientID(notif.RecipientID),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, notif *Notification, recipient *Recipient) {
	status := EmailSent
	if err := d.email.SendNotificationEmail(ctx, recipient.Email, notif.Title, notif.Message, notif.Link, recipient.Name); err != nil {
		status = EmailFailed
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to send notification email",
			logger.NotificationID(notif.ID),
			logger.RecipientID(recipient.ID),
			logger.Error(err),
		)
	}

	if err := d.storage.SetEmailStatus(ctx, notif.ID, status); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "Failed to record email status",
			logger.NotificationID(notif.ID),
			slog.String("email_status", string(status)),
			logger.Error(err),
		)
		return
	}
	notif.SetEmailStatus(status)
}

// Storage returns the underlying notification storage.
func (d *Dispatcher) Storage() Storage {
	return d.storage
}

// Directory returns the recipient directory.
func (d *Dispatcher) Directory() Directory {
	return d.directory
}
