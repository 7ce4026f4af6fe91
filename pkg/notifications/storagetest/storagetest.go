// Package storagetest is a conformance suite for notifications.Storage and
// notifications.Directory implementations.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// Backend is a store that serves both notifications and the user directory.
type Backend interface {
	notifications.Storage
	notifications.Directory
}

// Factory returns a backend seeded with the given users and companies.
// Backends may be shared between calls as long as seeded data is visible.
type Factory func(t *testing.T, users []notifications.Recipient, companies []notifications.Company) Backend

type fixture struct {
	backend Backend
	company notifications.Company
	owner   notifications.Recipient
	member  notifications.Recipient
	cs      notifications.Recipient
	base    time.Time
}

func setup(t *testing.T, factory Factory) fixture {
	t.Helper()

	// Unique IDs keep runs against shared databases isolated.
	suffix := uuid.NewString()[:8]
	f := fixture{
		company: notifications.Company{ID: "company-" + suffix, Name: "Acme", CSOwnerUserID: "cs-" + suffix},
		owner: notifications.Recipient{
			ID: "owner-" + suffix, Name: "Olivia", Email: "olivia@example.com",
			Role: notifications.RoleAccountOwner, CompanyID: "company-" + suffix,
			Preferences: notifications.DefaultPreferences(),
		},
		member: notifications.Recipient{
			ID: "member-" + suffix, Name: "Mario", Email: "mario@example.com",
			Role: notifications.RoleCompanyMember, CompanyID: "company-" + suffix,
			Preferences: notifications.Preferences{InApp: true, Deliveries: true},
		},
		cs: notifications.Recipient{
			ID: "cs-" + suffix, Name: "Carla", Email: "carla@example.com",
			Role:        notifications.RoleCSOwner,
			Preferences: notifications.DefaultPreferences(),
		},
		// Millisecond precision survives every backend.
		base: time.Now().UTC().Truncate(time.Millisecond),
	}
	f.backend = factory(t,
		[]notifications.Recipient{f.owner, f.member, f.cs},
		[]notifications.Company{f.company},
	)
	return f
}

func (f fixture) notification(recipientID string, age time.Duration) notifications.Notification {
	return notifications.Notification{
		ID:          uuid.NewString(),
		Type:        notifications.TypeDeliveryCompleted,
		Title:       "Delivery completed",
		Message:     "The delivery \"Onboarding\" was completed.",
		Link:        "/client/deliveries/d-1",
		RecipientID: recipientID,
		CompanyID:   f.company.ID,
		EmailStatus: notifications.EmailNotAttempted,
		CreatedAt:   f.base.Add(-age),
	}
}

func (f fixture) create(t *testing.T, n notifications.Notification) notifications.Notification {
	t.Helper()
	require.NoError(t, f.backend.Create(context.Background(), n))
	return n
}

// Run executes the full suite against backends produced by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("Create rejects unknown recipient", func(t *testing.T) {
		f := setup(t, factory)
		err := f.backend.Create(context.Background(), f.notification("ghost-"+uuid.NewString(), 0))
		assert.ErrorIs(t, err, notifications.ErrRecipientNotFound)
	})

	t.Run("Get is scoped to owner", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		n := f.create(t, f.notification(f.owner.ID, 0))

		got, err := f.backend.Get(ctx, f.owner.ID, n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, n.Type, got.Type)
		assert.Equal(t, n.Title, got.Title)
		assert.Equal(t, n.Message, got.Message)
		assert.Equal(t, n.Link, got.Link)
		assert.Equal(t, n.CompanyID, got.CompanyID)
		assert.False(t, got.Read)
		assert.Nil(t, got.ReadAt)
		assert.Equal(t, notifications.EmailNotAttempted, got.EmailStatus)
		assert.WithinDuration(t, n.CreatedAt, got.CreatedAt, time.Millisecond)

		_, err = f.backend.Get(ctx, f.member.ID, n.ID)
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

		_, err = f.backend.Get(ctx, f.owner.ID, uuid.NewString())
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})

	t.Run("List orders newest first and paginates", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		oldest := f.create(t, f.notification(f.owner.ID, 3*time.Minute))
		middle := f.create(t, f.notification(f.owner.ID, 2*time.Minute))
		newest := f.create(t, f.notification(f.owner.ID, time.Minute))
		f.create(t, f.notification(f.member.ID, 0))

		all, err := f.backend.List(ctx, f.owner.ID, notifications.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, ids(all))

		page, err := f.backend.List(ctx, f.owner.ID, notifications.ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{middle.ID}, ids(page))

		past, err := f.backend.List(ctx, f.owner.ID, notifications.ListOptions{Limit: 10, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, past)

		_, err = f.backend.MarkRead(ctx, f.owner.ID, middle.ID)
		require.NoError(t, err)
		unread, err := f.backend.List(ctx, f.owner.ID, notifications.ListOptions{UnreadOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{newest.ID, oldest.ID}, ids(unread))
	})

	t.Run("MarkRead counts only unread owned notifications", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		a := f.create(t, f.notification(f.owner.ID, 0))
		b := f.create(t, f.notification(f.owner.ID, time.Second))

		n, err := f.backend.MarkRead(ctx, f.member.ID, a.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = f.backend.MarkRead(ctx, f.owner.ID, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = f.backend.MarkRead(ctx, f.owner.ID, a.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err := f.backend.Get(ctx, f.owner.ID, a.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
		assert.NotNil(t, got.ReadAt)

		n, err = f.backend.MarkRead(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("MarkAllRead and CountUnread", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		f.create(t, f.notification(f.owner.ID, 0))
		f.create(t, f.notification(f.owner.ID, time.Second))
		f.create(t, f.notification(f.member.ID, 0))

		count, err := f.backend.CountUnread(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		n, err := f.backend.MarkAllRead(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		count, err = f.backend.CountUnread(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = f.backend.CountUnread(ctx, f.member.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		n, err = f.backend.MarkAllRead(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Delete is scoped to owner", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		n := f.create(t, f.notification(f.owner.ID, 0))

		removed, err := f.backend.Delete(ctx, f.member.ID, n.ID)
		require.NoError(t, err)
		assert.Zero(t, removed)

		removed, err = f.backend.Delete(ctx, f.owner.ID, n.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = f.backend.Get(ctx, f.owner.ID, n.ID)
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

		removed, err = f.backend.Delete(ctx, f.owner.ID, n.ID)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("SetEmailStatus keeps flag in sync", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()
		n := f.create(t, f.notification(f.owner.ID, 0))

		require.NoError(t, f.backend.SetEmailStatus(ctx, n.ID, notifications.EmailSent))
		got, err := f.backend.Get(ctx, f.owner.ID, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notifications.EmailSent, got.EmailStatus)
		assert.True(t, got.EmailSent)

		require.NoError(t, f.backend.SetEmailStatus(ctx, n.ID, notifications.EmailFailed))
		got, err = f.backend.Get(ctx, f.owner.ID, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notifications.EmailFailed, got.EmailStatus)
		assert.False(t, got.EmailSent)

		err = f.backend.SetEmailStatus(ctx, uuid.NewString(), notifications.EmailSent)
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})

	t.Run("Directory lookups", func(t *testing.T) {
		f := setup(t, factory)
		ctx := context.Background()

		rec, err := f.backend.GetRecipient(ctx, f.member.ID)
		require.NoError(t, err)
		assert.Equal(t, f.member, *rec)

		_, err = f.backend.GetRecipient(ctx, "ghost-"+uuid.NewString())
		assert.ErrorIs(t, err, notifications.ErrRecipientNotFound)

		company, err := f.backend.GetCompany(ctx, f.company.ID)
		require.NoError(t, err)
		assert.Equal(t, f.company, *company)

		_, err = f.backend.GetCompany(ctx, "ghost-"+uuid.NewString())
		assert.ErrorIs(t, err, notifications.ErrCompanyNotFound)

		byCompany, err := f.backend.ListRecipients(ctx, notifications.RecipientFilter{CompanyID: f.company.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{f.owner.ID, f.member.ID}, recipientIDs(byCompany))

		owners, err := f.backend.ListRecipients(ctx, notifications.RecipientFilter{
			CompanyID: f.company.ID,
			Roles:     []notifications.Role{notifications.RoleAccountOwner},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{f.owner.ID}, recipientIDs(owners))

		staff, err := f.backend.ListRecipients(ctx, notifications.RecipientFilter{
			Roles: []notifications.Role{notifications.RoleCSOwner},
		})
		require.NoError(t, err)
		assert.Contains(t, recipientIDs(staff), f.cs.ID)
		assert.NotContains(t, recipientIDs(staff), f.owner.ID)
	})
}

func ids(list []notifications.Notification) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}

func recipientIDs(list []notifications.Recipient) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
