package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// fanout calls Create once per recipient. Each recipient is isolated: a
// failure is recorded and the loop moves on. Duplicate ids are notified once.
// Only context cancellation stops the loop early.
func (d *Dispatcher) fanout(ctx context.Context, event string, recipientIDs []string, build func(recipientID string) (CreateInput, error)) ([]Notification, error) {
	created := make([]Notification, 0, len(recipientIDs))
	var failures []RecipientError

	seen := make(map[string]struct{}, len(recipientIDs))
	for _, id := range recipientIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			failures = append(failures, RecipientError{RecipientID: id, Err: err})
			continue
		}

		notif, err := d.notifyOne(ctx, id, build)
		if err != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "Failed to notify recipient",
				logger.Event(event),
				logger.RecipientID(id),
				logger.Error(err),
			)
			failures = append(failures, RecipientError{RecipientID: id, Err: err})
			continue
		}
		created = append(created, *notif)
	}

	d.logger.LogAttrs(ctx, slog.LevelDebug, "Event fan-out finished",
		logger.Event(event),
		logger.Count(len(created)),
		slog.Int("failed", len(failures)),
	)

	if len(failures) > 0 {
		return created, &FanoutError{Event: event, Failures: failures}
	}
	return created, nil
}

func (d *Dispatcher) notifyOne(ctx context.Context, recipientID string, build func(string) (CreateInput, error)) (*Notification, error) {
	in, err := build(recipientID)
	if err != nil {
		return nil, err
	}
	return d.Create(ctx, in)
}

// accountOwnerIDs returns every account owner of the company.
func (d *Dispatcher) accountOwnerIDs(ctx context.Context, companyID string) ([]string, error) {
	return d.recipientIDs(ctx, RecipientFilter{CompanyID: companyID, Roles: []Role{RoleAccountOwner}})
}

// audienceIDs resolves a survey or diagnostic audience within a company.
func (d *Dispatcher) audienceIDs(ctx context.Context, companyID string, audience Audience) ([]string, error) {
	filter := RecipientFilter{CompanyID: companyID}
	switch audience {
	case AudienceOwners:
		filter.Roles = []Role{RoleAccountOwner}
	case AudienceMembers:
		filter.Roles = []Role{RoleCompanyMember}
	case AudienceAll, "":
		filter.Roles = []Role{RoleAccountOwner, RoleCompanyMember}
	default:
		return nil, fmt.Errorf("%w: unknown audience %q", ErrInvalidInput, audience)
	}
	return d.recipientIDs(ctx, filter)
}

// csOwner returns the company and the user id of its CS owner, if one is assigned.
func (d *Dispatcher) csOwner(ctx context.Context, companyID string) (*Company, []string, error) {
	company, err := d.directory.GetCompany(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve cs owner of company %s: %w", companyID, err)
	}
	if company.CSOwnerUserID == "" {
		return company, nil, nil
	}
	return company, []string{company.CSOwnerUserID}, nil
}

func (d *Dispatcher) recipientIDs(ctx context.Context, filter RecipientFilter) ([]string, error) {
	recipients, err := d.directory.ListRecipients(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	ids := make([]string, 0, len(recipients))
	for _, r := range recipients {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// IsPartialFailure reports whether err is a fan-out where some recipients failed.
func IsPartialFailure(err error) bool {
	var fe *FanoutError
	return errors.As(err, &fe)
}
