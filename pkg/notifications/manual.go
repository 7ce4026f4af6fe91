package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ManualInput is a message written by staff for an explicit list of users.
type ManualInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Message      string   `json:"message" validate:"required,max=5000"`
	Link         string   `json:"link,omitempty" validate:"omitempty,max=2048"`
	RecipientIDs []string `json:"recipient_ids" validate:"required,min=1,dive,required"`
}

// BroadcastInput is a message for every user matching optional role and company filters.
type BroadcastInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Message    string `json:"message" validate:"required,max=5000"`
	Link       string `json:"link,omitempty" validate:"omitempty,max=2048"`
	TargetRole Role   `json:"target_role,omitempty"`
	CompanyID  string `json:"company_id,omitempty"`
}

// SendManual creates one MANUAL_MESSAGE notification per recipient.
func (d *Dispatcher) SendManual(ctx context.Context, senderID string, in ManualInput) ([]Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := d.validate.StructCtx(ctx, in); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	return d.fanout(ctx, string(TypeManualMessage), in.RecipientIDs, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeManualMessage,
			Title:       in.Title,
			Message:     in.Message,
			Link:        in.Link,
			RecipientID: id,
			SenderID:    senderID,
		}, nil
	})
}

// SendBroadcast creates one BROADCAST notification per matching user and
// returns how many were created.
func (d *Dispatcher) SendBroadcast(ctx context.Context, senderID string, in BroadcastInput) (int, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := d.validate.StructCtx(ctx, in); err != nil {
		return 0, errors.Join(ErrInvalidInput, err)
	}
	if in.TargetRole != "" && !in.TargetRole.Valid() {
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.TargetRole)
	}

	filter := RecipientFilter{CompanyID: in.CompanyID}
	if in.TargetRole != "" {
		filter.Roles = []Role{in.TargetRole}
	}
	ids, err := d.recipientIDs(ctx, filter)
	if err != nil {
		return 0, err
	}

	created, err := d.fanout(ctx, string(TypeBroadcast), ids, func(id string) (CreateInput, error) {
		return CreateInput{
			Type:        TypeBroadcast,
			Title:       in.Title,
			Message:     in.Message,
			Link:        in.Link,
			RecipientID: id,
			SenderID:    senderID,
			CompanyID:   in.CompanyID,
		}, nil
	})
	return len(created), err
}
