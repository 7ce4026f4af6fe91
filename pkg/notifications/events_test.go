package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestDispatcher_EventRecipients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dep := Dependency{ID: "dep-1", Title: "Brand assets", DeliveryID: "d-1", DeliveryTitle: "Website", CompanyID: "acme"}
	delivery := Delivery{ID: "d-1", Title: "Website", CompanyID: "acme", Progress: 40}
	comment := Comment{ID: "cm-1", CompanyID: "acme", DeliveryID: "d-1", DeliveryTitle: "Website", AuthorID: "owner-1", AuthorName: "Olivia", Body: "Looks good"}

	tests := []struct {
		name     string
		notify   func(d *Dispatcher) ([]Notification, error)
		wantType Type
		wantIDs  []string
		wantLink map[string]string
	}{
		{
			name:     "dependency added",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDependencyAdded(ctx, dep) },
			wantType: TypeDependencyAdded,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-1": "/client/deliveries/d-1?dependency=dep-1"},
		},
		{
			name:     "dependency provided",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDependencyProvided(ctx, dep, "Olivia") },
			wantType: TypeDependencyProvided,
			wantIDs:  []string{"cs-1"},
			wantLink: map[string]string{"cs-1": "/cs/companies/acme/deliveries/d-1"},
		},
		{
			name:     "dependency overdue",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDependencyOverdue(ctx, dep) },
			wantType: TypeDependencyOverdue,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-2": "/client/deliveries/d-1?dependency=dep-1"},
		},
		{
			name:     "delivery progress",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDeliveryProgress(ctx, delivery) },
			wantType: TypeDeliveryProgress,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-1": "/client/deliveries/d-1"},
		},
		{
			name:     "delivery completed",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDeliveryCompleted(ctx, delivery) },
			wantType: TypeDeliveryCompleted,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-1": "/client/deliveries/d-1"},
		},
		{
			name:     "delivery approved",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyDeliveryApproved(ctx, delivery, "Olivia") },
			wantType: TypeDeliveryApproved,
			wantIDs:  []string{"cs-1"},
			wantLink: map[string]string{"cs-1": "/cs/companies/acme/deliveries/d-1"},
		},
		{
			name:     "client comment",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyClientComment(ctx, comment) },
			wantType: TypeClientComment,
			wantIDs:  []string{"cs-1"},
			wantLink: map[string]string{"cs-1": "/cs/companies/acme/deliveries/d-1"},
		},
		{
			name:     "comment answered",
			notify:   func(d *Dispatcher) ([]Notification, error) { return d.NotifyCommentAnswered(ctx, comment) },
			wantType: TypeCommentAnswered,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-2": "/client/deliveries/d-1"},
		},
		{
			name: "meeting scheduled",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifyMeetingScheduled(ctx, Meeting{ID: "m-1", Title: "QBR", CompanyID: "acme", StartsAt: fixedNow.Add(48 * time.Hour)})
			},
			wantType: TypeMeetingScheduled,
			wantIDs:  []string{"owner-1", "owner-2"},
			wantLink: map[string]string{"owner-1": "/client/meetings"},
		},
		{
			name: "survey pending for everyone",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifySurveyPending(ctx, Survey{ID: "s-1", Title: "NPS", CompanyID: "acme", Audience: AudienceAll})
			},
			wantType: TypeSurveyPending,
			wantIDs:  []string{"member-1", "owner-1", "owner-2"},
			wantLink: map[string]string{"member-1": "/client/surveys/s-1"},
		},
		{
			name: "survey pending defaults to everyone",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifySurveyPending(ctx, Survey{ID: "s-1", Title: "NPS", CompanyID: "acme"})
			},
			wantType: TypeSurveyPending,
			wantIDs:  []string{"member-1", "owner-1", "owner-2"},
		},
		{
			name: "survey pending for owners",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifySurveyPending(ctx, Survey{ID: "s-1", Title: "NPS", CompanyID: "acme", Audience: AudienceOwners})
			},
			wantType: TypeSurveyPending,
			wantIDs:  []string{"owner-1", "owner-2"},
		},
		{
			name: "diagnostic pending for members",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifyDiagnosticPending(ctx, Diagnostic{ID: "dg-1", Title: "Maturity", CompanyID: "acme", Audience: AudienceMembers})
			},
			wantType: TypeDiagnosticPending,
			wantIDs:  []string{"member-1"},
			wantLink: map[string]string{"member-1": "/client/diagnostics/dg-1"},
		},
		{
			name: "diagnostic completed",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifyDiagnosticCompleted(ctx, Diagnostic{ID: "dg-1", Title: "Maturity", CompanyID: "acme"})
			},
			wantType: TypeDiagnosticCompleted,
			wantIDs:  []string{"cs-1", "owner-1", "owner-2"},
			wantLink: map[string]string{
				"cs-1":    "/cs/companies/acme/diagnostics/dg-1",
				"owner-1": "/client/diagnostics/dg-1",
			},
		},
		{
			name: "survey completed",
			notify: func(d *Dispatcher) ([]Notification, error) {
				return d.NotifySurveyCompleted(ctx, SurveyResponse{
					Survey: Survey{ID: "s-1", Title: "NPS", CompanyID: "acme"}, RespondentName: "Olivia", Score: score(9),
				})
			},
			wantType: TypeSurveyCompleted,
			wantIDs:  []string{"cs-1"},
			wantLink: map[string]string{"cs-1": "/cs/companies/acme/surveys/s-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := seededStore()
			d := newTestDispatcher(store, WithLiveChannel(quietLive(t)))

			created, err := tt.notify(d)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, recipientsOf(created))

			got := byRecipient(created)
			for _, n := range created {
				assert.Equal(t, tt.wantType, n.Type)
				assert.Equal(t, "acme", n.CompanyID)
				assert.NotEmpty(t, n.Title)
				assert.NotEmpty(t, n.Message)

				count, err := store.CountUnread(ctx, n.RecipientID)
				require.NoError(t, err)
				assert.Equal(t, 1, count, "one row per recipient")
			}
			for id, link := range tt.wantLink {
				assert.Equal(t, link, got[id].Link, id)
			}
		})
	}
}

func TestDispatcher_CSOwnerEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("company without cs owner notifies nobody", func(t *testing.T) {
		t.Parallel()

		d := newTestDispatcher(seededStore())
		dep := Dependency{ID: "dep-1", Title: "Logo", DeliveryID: "d-9", CompanyID: "solo"}

		created, err := d.NotifyDependencyProvided(ctx, dep, "Sol")
		require.NoError(t, err)
		assert.Empty(t, created)

		created, err = d.NotifyDiagnosticCompleted(ctx, Diagnostic{ID: "dg-1", Title: "Maturity", CompanyID: "solo"})
		require.NoError(t, err)
		assert.Equal(t, []string{"owner-solo"}, recipientsOf(created))
	})

	t.Run("unknown company is an error", func(t *testing.T) {
		t.Parallel()

		d := newTestDispatcher(seededStore())
		_, err := d.NotifyDeliveryApproved(ctx, Delivery{ID: "d-1", CompanyID: "nope"}, "x")
		assert.ErrorIs(t, err, ErrCompanyNotFound)
	})

	t.Run("messages carry the company name", func(t *testing.T) {
		t.Parallel()

		d := newTestDispatcher(seededStore())
		created, err := d.NotifyDeliveryApproved(ctx, Delivery{ID: "d-1", Title: "Website", CompanyID: "acme"}, "")
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, `Acme: Someone approved "Website".`, created[0].Message)
	})
}

func TestDispatcher_NotifyClientComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	long := strings.Repeat("é", 300)

	tests := []struct {
		name      string
		comment   Comment
		wantTitle string
		check     func(t *testing.T, n Notification)
	}{
		{
			name:      "plain comment",
			comment:   Comment{CompanyID: "acme", DeliveryID: "d-1", DeliveryTitle: "Website", AuthorID: "owner-1", AuthorName: "Olivia", Body: "Nice"},
			wantTitle: "New client comment",
			check: func(t *testing.T, n Notification) {
				assert.Equal(t, `Acme: Olivia commented on "Website": Nice`, n.Message)
				assert.Equal(t, "owner-1", n.SenderID)
				assert.Equal(t, "d-1", n.DeliveryID)
			},
		},
		{
			name:      "change request",
			comment:   Comment{CompanyID: "acme", DeliveryID: "d-1", DeliveryTitle: "Website", AuthorName: "Olivia", Body: "Fix the header", ChangeRequest: true},
			wantTitle: "Changes requested",
			check: func(t *testing.T, n Notification) {
				assert.Contains(t, n.Message, "requested changes on")
			},
		},
		{
			name:      "long body is shortened",
			comment:   Comment{CompanyID: "acme", DeliveryID: "d-1", DeliveryTitle: "Website", AuthorName: "Olivia", Body: long},
			wantTitle: "New client comment",
			check: func(t *testing.T, n Notification) {
				assert.True(t, strings.HasSuffix(n.Message, "…"))
				assert.NotContains(t, n.Message, long)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newTestDispatcher(seededStore())
			created, err := d.NotifyClientComment(ctx, tt.comment)
			require.NoError(t, err)
			require.Len(t, created, 1)
			assert.Equal(t, tt.wantTitle, created[0].Title)
			tt.check(t, created[0])
		})
	}
}

func TestDispatcher_NotifyMentions(t *testing.T) {
	t.Parallel()

	store := seededStore()
	d := newTestDispatcher(store)

	created, err := d.NotifyMentions(context.Background(), Comment{
		ID: "cm-7", CompanyID: "acme", AuthorID: "cs-1", AuthorName: "Carla", Body: "@Ada @Olivia please check",
		MentionedUserIDs: []string{"admin-1", "owner-1", "admin-1", "ghost"},
	})

	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	var fe *FanoutError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"ghost"}, fe.FailedRecipients())
	assert.Equal(t, string(TypeMention), fe.Event)

	assert.Equal(t, []string{"admin-1", "owner-1"}, recipientsOf(created))
	got := byRecipient(created)
	assert.Equal(t, "/admin/companies/acme?comment=cm-7", got["admin-1"].Link)
	assert.Equal(t, "/cs/companies/acme?comment=cm-7", got["owner-1"].Link)
	assert.Equal(t, "cs-1", got["admin-1"].SenderID)
	assert.Equal(t, "Carla mentioned you: @Ada @Olivia please check", got["admin-1"].Message)

	count, err := store.CountUnread(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "duplicate mentions are notified once")
}

func TestDispatcher_NotifySurveyCompleted_LowScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	survey := Survey{ID: "s-1", Title: "NPS", CompanyID: "acme"}

	tests := []struct {
		name      string
		opts      []DispatcherOption
		score     *float64
		wantTypes []Type
	}{
		{name: "no score", score: nil, wantTypes: []Type{TypeSurveyCompleted}},
		{name: "high score", score: score(8), wantTypes: []Type{TypeSurveyCompleted}},
		{name: "at threshold", score: score(DefaultLowScoreThreshold), wantTypes: []Type{TypeSurveyCompleted}},
		{name: "low score", score: score(4.5), wantTypes: []Type{TypeSurveyCompleted, TypeSurveyLowScore}},
		{
			name:      "custom threshold",
			opts:      []DispatcherOption{WithLowScoreThreshold(9.5)},
			score:     score(9),
			wantTypes: []Type{TypeSurveyCompleted, TypeSurveyLowScore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newTestDispatcher(seededStore(), tt.opts...)
			created, err := d.NotifySurveyCompleted(ctx, SurveyResponse{Survey: survey, RespondentName: "Olivia", Score: tt.score})
			require.NoError(t, err)

			types := make([]Type, len(created))
			for i, n := range created {
				types[i] = n.Type
				assert.Equal(t, "cs-1", n.RecipientID)
			}
			assert.Equal(t, tt.wantTypes, types)
		})
	}
}

func TestDispatcher_NotifyLowSurveyScore(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(seededStore())
	resp := SurveyResponse{Survey: Survey{ID: "s-1", Title: "NPS", CompanyID: "acme"}, RespondentName: "Olivia"}

	_, err := d.NotifyLowSurveyScore(context.Background(), resp)
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp.Score = score(3)
	created, err := d.NotifyLowSurveyScore(context.Background(), resp)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, `Acme: Olivia rated "NPS" 3.0, below the 7.0 threshold.`, created[0].Message)
	assert.Equal(t, "/cs/companies/acme/surveys/s-1", created[0].Link)
}

func TestDispatcher_NotifyDependencyOverdue_Message(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(seededStore())
	due := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)

	created, err := d.NotifyDependencyOverdue(context.Background(), Dependency{
		ID: "dep-1", Title: "Logo", DeliveryID: "d-1", DeliveryTitle: "Website", CompanyID: "acme", DueDate: &due,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created)
	assert.Equal(t, `"Logo" for delivery "Website" was due on May 30, 2025.`, created[0].Message)

	created, err = d.NotifyDependencyOverdue(context.Background(), Dependency{
		ID: "dep-1", Title: "Logo", DeliveryID: "d-1", DeliveryTitle: "Website", CompanyID: "acme",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created)
	assert.Equal(t, `"Logo" for delivery "Website" is overdue.`, created[0].Message)
}

func TestDispatcher_NotifyDeliveryProgress_Message(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(seededStore())
	created, err := d.NotifyDeliveryProgress(context.Background(), Delivery{ID: "d-1", Title: "Website", CompanyID: "acme", Progress: 40})
	require.NoError(t, err)
	require.NotEmpty(t, created)
	assert.Equal(t, `"Website" is now 40% complete.`, created[0].Message)
}

func TestDispatcher_InvalidAudience(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(seededStore())
	_, err := d.NotifySurveyPending(context.Background(), Survey{ID: "s-1", CompanyID: "acme", Audience: "VIPS"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.NotifyDiagnosticPending(context.Background(), Diagnostic{ID: "dg-1", CompanyID: "acme", Audience: "VIPS"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDispatcher_FanoutIsolation(t *testing.T) {
	t.Parallel()

	store := seededStore()
	d := NewDispatcher(flakyStorage{Storage: store, failFor: "owner-1"}, store, WithDispatcherLogger(discardLogger()))

	created, err := d.NotifyDeliveryCompleted(context.Background(), Delivery{ID: "d-1", Title: "Website", CompanyID: "acme"})

	assert.Equal(t, []string{"owner-2"}, recipientsOf(created))
	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))
	assert.ErrorIs(t, err, errStorageDown)
	assert.Contains(t, err.Error(), "owner-1")

	var fe *FanoutError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"owner-1"}, fe.FailedRecipients())

	count, err := store.CountUnread(context.Background(), "owner-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDispatcher_FanoutStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := seededStore()
	d := newTestDispatcher(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := d.NotifyDeliveryCompleted(ctx, Delivery{ID: "d-1", Title: "Website", CompanyID: "acme"})
	assert.Empty(t, created)
	assert.ErrorIs(t, err, context.Canceled)

	var fe *FanoutError
	require.True(t, errors.As(err, &fe))
	assert.ElementsMatch(t, []string{"owner-1", "owner-2"}, fe.FailedRecipients())

	count, err := store.CountUnread(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDispatcher_RepeatedEventsAreNotDeduplicated(t *testing.T) {
	t.Parallel()

	store := seededStore()
	d := newTestDispatcher(store)
	delivery := Delivery{ID: "d-1", Title: "Website", CompanyID: "acme"}

	for range 2 {
		_, err := d.NotifyDeliveryCompleted(context.Background(), delivery)
		require.NoError(t, err)
	}

	count, err := store.CountUnread(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
