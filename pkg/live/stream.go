package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// UnreadCounter reports the unread notification count of a user.
type UnreadCounter func(ctx context.Context, userID string) (int, error)

// StreamHandler streams a user's live events over server-sent events as
// datastar signal patches. Each event is sent as
//
//	{"notifications": {"unread": <count>, "last_event": <type>, "latest": <data>}}
//
// where "unread" is present only when a counter is configured.
type StreamHandler struct {
	hub     *Hub
	userID  func(*http.Request) string
	counter UnreadCounter
	logger  *slog.Logger
}

// StreamOption configures a StreamHandler.
type StreamOption func(*StreamHandler)

// WithUnreadCounter adds the unread count to every patch and sends it once
// when the stream opens.
func WithUnreadCounter(counter UnreadCounter) StreamOption {
	return func(s *StreamHandler) {
		s.counter = counter
	}
}

// WithStreamLogger sets the logger for the handler.
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(s *StreamHandler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStreamHandler creates a handler that resolves the caller with userID.
// Requests for which userID returns "" get 401.
func NewStreamHandler(hub *Hub, userID func(*http.Request) string, opts ...StreamOption) *StreamHandler {
	s := &StreamHandler{
		hub:    hub,
		userID: userID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	if userID == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	sub := s.hub.Subscribe(ctx, userID)
	defer sub.Close()

	sse := datastar.NewSSE(w, r)

	if s.counter != nil {
		if err := s.patch(ctx, sse, userID, nil); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := s.patch(ctx, sse, userID, &evt); err != nil {
				return
			}
		}
	}
}

func (s *StreamHandler) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, userID string, evt *Event) error {
	state := map[string]any{}
	if evt != nil {
		state["last_event"] = evt.Type
		state["latest"] = evt.Data
	}
	if s.counter != nil {
		count, err := s.counter(ctx, userID)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to count unread notifications",
				logger.UserID(userID),
				logger.Error(err),
			)
		} else {
			state["unread"] = count
		}
	}

	data, err := json.Marshal(map[string]any{"notifications": state})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "Failed to encode live event",
			logger.UserID(userID),
			logger.Error(err),
		)
		return nil
	}

	if err := sse.PatchSignals(data); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "Live stream closed",
			logger.UserID(userID),
			logger.Error(err),
		)
		return err
	}
	return nil
}
