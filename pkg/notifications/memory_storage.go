package notifications

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of Storage and Directory.
// Suitable for development and testing.
type MemoryStorage struct {
	notifications map[string][]Notification // recipientID -> notifications
	owners        map[string]string         // notificationID -> recipientID
	users         []Recipient
	companies     map[string]Company
	mu            sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[string][]Notification),
		owners:        make(map[string]string),
		companies:     make(map[string]Company),
	}
}

// PutRecipient inserts or replaces a user.
func (s *MemoryStorage) PutRecipient(r Recipient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == r.ID {
			s.users[i] = r
			return
		}
	}
	s.users = append(s.users, r)
}

// PutCompany inserts or replaces a company.
func (s *MemoryStorage) PutCompany(c Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *MemoryStorage) Create(ctx context.Context, notif Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.ID == "" {
		return errors.New("notification ID is required")
	}
	if !s.hasUser(notif.RecipientID) {
		return ErrRecipientNotFound
	}

	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	s.notifications[notif.RecipientID] = append(s.notifications[notif.RecipientID], notif)
	s.owners[notif.ID] = notif.RecipientID
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			// Return a copy to prevent external mutation of stored data
			notif := n
			return &notif, nil
		}
	}

	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]Notification, 0, len(s.notifications[userID]))
	for _, n := range s.notifications[userID] {
		if opts.UnreadOnly && n.Read {
			continue
		}
		filtered = append(filtered, n)
	}

	// Newest first; stable so equal timestamps keep reverse insertion order.
	slices.Reverse(filtered)
	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := min(opts.Offset, len(filtered))
	end := len(filtered)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := s.notifications[userID]
	count := 0
	for i := range notifications {
		if notifications[i].Read || !slices.Contains(notifIDs, notifications[i].ID) {
			continue
		}
		notifications[i].MarkAsRead()
		count++
	}
	return count, nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := s.notifications[userID]
	count := 0
	for i := range notifications {
		if !notifications[i].Read {
			notifications[i].MarkAsRead()
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, notifIDs ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications, exists := s.notifications[userID]
	if !exists {
		return 0, nil
	}

	kept := notifications[:0]
	removed := 0
	for _, n := range notifications {
		if slices.Contains(notifIDs, n.ID) {
			delete(s.owners, n.ID)
			removed++
			continue
		}
		kept = append(kept, n)
	}

	s.notifications[userID] = kept
	return removed, nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) SetEmailStatus(ctx context.Context, notifID string, status EmailStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[notifID]
	if !ok {
		return ErrNotificationNotFound
	}
	notifications := s.notifications[owner]
	for i := range notifications {
		if notifications[i].ID == notifID {
			notifications[i].SetEmailStatus(status)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (s *MemoryStorage) GetRecipient(ctx context.Context, userID string) (*Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == userID {
			r := u
			return &r, nil
		}
	}
	return nil, ErrRecipientNotFound
}

func (s *MemoryStorage) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[companyID]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return &c, nil
}

func (s *MemoryStorage) ListRecipients(ctx context.Context, filter RecipientFilter) ([]Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Recipient, 0)
	for _, u := range s.users {
		if filter.Matches(u) {
			result = append(result, u)
		}
	}
	slices.SortFunc(result, func(a, b Recipient) int { return strings.Compare(a.ID, b.ID) })
	return result, nil
}

func (s *MemoryStorage) hasUser(id string) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}
