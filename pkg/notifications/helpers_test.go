package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

type MockLiveChannel struct {
	mock.Mock
}

func (m *MockLiveChannel) Send(ctx context.Context, userID, eventType string, data any) error {
	return m.Called(ctx, userID, eventType, data).Error(0)
}

type MockEmailGateway struct {
	mock.Mock
}

func (m *MockEmailGateway) SendNotificationEmail(ctx context.Context, to, title, message, link, recipientName string) error {
	return m.Called(ctx, to, title, message, link, recipientName).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Create(ctx context.Context, notif Notification) error {
	return m.Called(ctx, notif).Error(0)
}

func (m *MockStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	args := m.Called(ctx, userID, notifID)
	n, _ := args.Get(0).(*Notification)
	return n, args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	args := m.Called(ctx, userID, opts)
	list, _ := args.Get(0).([]Notification)
	return list, args.Error(1)
}

func (m *MockStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	args := m.Called(ctx, userID, notifIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	args := m.Called(ctx, userID, notifIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) SetEmailStatus(ctx context.Context, notifID string, status EmailStatus) error {
	return m.Called(ctx, notifID, status).Error(0)
}

// flakyStorage fails Create for one recipient.
type flakyStorage struct {
	Storage
	failFor string
}

var errStorageDown = errors.New("storage down")

func (s flakyStorage) Create(ctx context.Context, notif Notification) error {
	if notif.RecipientID == s.failFor {
		return errStorageDown
	}
	return s.Storage.Create(ctx, notif)
}

// lookupFailingDirectory serves recipient lists but fails single lookups.
type lookupFailingDirectory struct {
	Directory
}

func (lookupFailingDirectory) GetRecipient(context.Context, string) (*Recipient, error) {
	return nil, errors.New("directory down")
}

type panickingLiveChannel struct{}

func (panickingLiveChannel) Send(context.Context, string, string, any) error {
	panic("live channel exploded")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededStore returns a store with two companies:
//
//	acme: CS owner cs-1, account owners owner-1 and owner-2, member member-1
//	solo: no CS owner, account owner owner-solo
//
// plus the staff users cs-1 and admin-1. Every user has all preferences on
// except where noted.
func seededStore() *MemoryStorage {
	store := NewMemoryStorage()
	store.PutCompany(Company{ID: "acme", Name: "Acme", CSOwnerUserID: "cs-1"})
	store.PutCompany(Company{ID: "solo", Name: "Solo"})

	for _, r := range []Recipient{
		{ID: "cs-1", Name: "Carla", Email: "carla@example.com", Role: RoleCSOwner},
		{ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: RoleAdmin},
		{ID: "owner-1", Name: "Olivia", Email: "olivia@acme.test", Role: RoleAccountOwner, CompanyID: "acme"},
		{ID: "owner-2", Name: "Oscar", Email: "oscar@acme.test", Role: RoleAccountOwner, CompanyID: "acme"},
		{ID: "member-1", Name: "Mario", Email: "mario@acme.test", Role: RoleCompanyMember, CompanyID: "acme"},
		{ID: "owner-solo", Name: "Sol", Email: "sol@solo.test", Role: RoleAccountOwner, CompanyID: "solo"},
	} {
		r.Preferences = DefaultPreferences()
		store.PutRecipient(r)
	}
	return store
}

func newTestDispatcher(store *MemoryStorage, opts ...DispatcherOption) *Dispatcher {
	base := []DispatcherOption{
		WithDispatcherLogger(discardLogger()),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewDispatcher(store, store, append(base, opts...)...)
}

func recipientsOf(list []Notification) []string {
	ids := make([]string, len(list))
	for i, n := range list {
		ids[i] = n.RecipientID
	}
	return ids
}

func byRecipient(list []Notification) map[string]Notification {
	m := make(map[string]Notification, len(list))
	for _, n := range list {
		m[n.RecipientID] = n
	}
	return m
}

// quietLive accepts every push.
func quietLive(t *testing.T) *MockLiveChannel {
	t.Helper()
	live := &MockLiveChannel{}
	live.Test(t)
	live.On("Send", mock.Anything, mock.Anything, LiveEventNotification, mock.Anything).Return(nil).Maybe()
	return live
}
