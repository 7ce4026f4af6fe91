package live

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// Event is one message pushed to a user's live sessions.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans events out to every open session of a user.
// Slow sessions are dropped rather than blocking the sender.
// All methods are safe for concurrent use.
type Hub struct {
	users      map[string]map[*Subscription]struct{}
	bufferSize int
	closed     bool
	logger     *slog.Logger
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup // tracks context watchers
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger for the Hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates a hub whose sessions buffer up to bufferSize events.
// A minimum buffer size of 1 is enforced.
func NewHub(bufferSize int, opts ...HubOption) *Hub {
	h := &Hub{
		users:      make(map[string]map[*Subscription]struct{}),
		bufferSize: max(bufferSize, 1),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Subscribe opens a session for userID. The session is closed when ctx is
// cancelled, when Close is called, or when it falls behind.
// Subscribing to a closed hub returns an already closed session.
func (h *Hub) Subscribe(ctx context.Context, userID string) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		ch:     make(chan Event, h.bufferSize),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.closeChannel()
		return sub
	}

	sessions, ok := h.users[userID]
	if !ok {
		sessions = make(map[*Subscription]struct{})
		h.users[userID] = sessions
	}
	sessions[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			select {
			case <-ctx.Done():
				h.unsubscribe(sub)
			case <-sub.done():
			}
		}()
	}

	return sub
}

// Send pushes an event to every session of userID. Users without open
// sessions are skipped silently; the hub never reports delivery failures.
func (h *Hub) Send(ctx context.Context, userID, eventType string, data any) error {
	delivered := h.Publish(userID, Event{Type: eventType, Data: data})
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Live event published",
		logger.UserID(userID),
		logger.Event(eventType),
		logger.Count(delivered),
	)
	return nil
}

// Publish pushes evt to every session of userID and returns how many
// sessions accepted it.
func (h *Hub) Publish(userID string, evt Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for sub := range h.users[userID] {
		if sub.send(evt) {
			delivered++
			continue
		}
		// Drop slow sessions asynchronously; unsubscribe needs the write lock.
		go h.unsubscribe(sub)
	}
	return delivered
}

// Sessions returns the number of open sessions for userID.
func (h *Hub) Sessions(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Close shuts the hub down and closes every session.
// It is safe to call Close multiple times.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true

	for _, sessions := range h.users {
		for sub := range sessions {
			sub.closeChannel()
		}
	}
	clear(h.users)
	h.mu.Unlock()

	h.cleanupWg.Wait()
	return nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessions, ok := h.users[sub.UserID]; ok {
		delete(sessions, sub)
		if len(sessions) == 0 {
			delete(h.users, sub.UserID)
		}
	}
	sub.closeChannel()
}

// Subscription is one live session of a user.
type Subscription struct {
	ID     string
	UserID string

	ch     chan Event
	closed bool
	mu     sync.RWMutex
	hub    *Hub
	quit   chan struct{}
	once   sync.Once
}

// Events returns the channel of incoming events. It is closed when the
// session ends.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close ends the session. Close is idempotent.
func (s *Subscription) Close() error {
	s.hub.unsubscribe(s)
	return nil
}

func (s *Subscription) done() <-chan struct{} {
	s.once.Do(func() { s.quit = make(chan struct{}) })
	return s.quit
}

func (s *Subscription) send(evt Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- evt:
		return true
	default:
		return false
	}
}

func (s *Subscription) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	s.done()
	close(s.quit)
}
