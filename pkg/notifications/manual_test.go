package notifications

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SendManual(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates one message per recipient", func(t *testing.T) {
		t.Parallel()

		store := seededStore()
		d := newTestDispatcher(store, WithLiveChannel(quietLive(t)))

		created, err := d.SendManual(ctx, "cs-1", ManualInput{
			Title:        "  Kickoff moved ",
			Message:      "New date is Friday",
			Link:         "/client/meetings",
			RecipientIDs: []string{"owner-1", "member-1", "owner-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"owner-1", "member-1"}, recipientsOf(created))
		for _, n := range created {
			assert.Equal(t, TypeManualMessage, n.Type)
			assert.Equal(t, "Kickoff moved", n.Title)
			assert.Equal(t, "cs-1", n.SenderID)
			assert.Equal(t, "/client/meetings", n.Link)
		}
	})

	t.Run("unknown recipients fail individually", func(t *testing.T) {
		t.Parallel()

		d := newTestDispatcher(seededStore())
		created, err := d.SendManual(ctx, "cs-1", ManualInput{
			Title: "Hi", Message: "There", RecipientIDs: []string{"ghost", "owner-1"},
		})
		assert.Equal(t, []string{"owner-1"}, recipientsOf(created))
		require.True(t, IsPartialFailure(err))
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			in    ManualInput
			field string
		}{
			{name: "blank title", in: ManualInput{Title: " ", Message: "m", RecipientIDs: []string{"owner-1"}}, field: "Title"},
			{name: "no message", in: ManualInput{Title: "t", RecipientIDs: []string{"owner-1"}}, field: "Message"},
			{name: "no recipients", in: ManualInput{Title: "t", Message: "m"}, field: "RecipientIDs"},
			{name: "empty recipient id", in: ManualInput{Title: "t", Message: "m", RecipientIDs: []string{""}}, field: "RecipientIDs[0]"},
		}

		for _, tt := range tests {
			d := newTestDispatcher(seededStore())
			created, err := d.SendManual(ctx, "cs-1", tt.in)
			assert.Nil(t, created, tt.name)
			require.ErrorIs(t, err, ErrInvalidInput, tt.name)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs, tt.name)
			assert.Equal(t, tt.field, verrs[0].Field(), tt.name)
		}
	})
}

func TestDispatcher_SendBroadcast(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		in      BroadcastInput
		wantIDs []string
	}{
		{
			name:    "everyone",
			in:      BroadcastInput{Title: "Maintenance", Message: "Saturday"},
			wantIDs: []string{"admin-1", "cs-1", "member-1", "owner-1", "owner-2", "owner-solo"},
		},
		{
			name:    "by role",
			in:      BroadcastInput{Title: "Maintenance", Message: "Saturday", TargetRole: RoleAccountOwner},
			wantIDs: []string{"owner-1", "owner-2", "owner-solo"},
		},
		{
			name:    "by company",
			in:      BroadcastInput{Title: "Maintenance", Message: "Saturday", CompanyID: "acme"},
			wantIDs: []string{"member-1", "owner-1", "owner-2"},
		},
		{
			name:    "by role and company",
			in:      BroadcastInput{Title: "Maintenance", Message: "Saturday", TargetRole: RoleCompanyMember, CompanyID: "acme"},
			wantIDs: []string{"member-1"},
		},
		{
			name:    "nobody matches",
			in:      BroadcastInput{Title: "Maintenance", Message: "Saturday", TargetRole: RoleCompanyMember, CompanyID: "solo"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := seededStore()
			d := newTestDispatcher(store)

			count, err := d.SendBroadcast(ctx, "admin-1", tt.in)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantIDs), count)

			for _, id := range tt.wantIDs {
				list, err := store.List(ctx, id, ListOptions{})
				require.NoError(t, err)
				require.Len(t, list, 1, id)
				assert.Equal(t, TypeBroadcast, list[0].Type)
				assert.Equal(t, "admin-1", list[0].SenderID)
				assert.Equal(t, tt.in.CompanyID, list[0].CompanyID)
			}
		})
	}
}

func TestDispatcher_SendBroadcast_Invalid(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(seededStore())

	_, err := d.SendBroadcast(context.Background(), "admin-1", BroadcastInput{Title: "", Message: "m"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.SendBroadcast(context.Background(), "admin-1", BroadcastInput{Title: "t", Message: "m", TargetRole: "GUEST"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
