package notifyapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// Service is the subset of *notifications.Dispatcher the API needs.
type Service interface {
	GetForUser(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, notifID, userID string) (*notifications.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notifID, userID string) error
	SendManual(ctx context.Context, senderID string, in notifications.ManualInput) ([]notifications.Notification, error)
	SendBroadcast(ctx context.Context, senderID string, in notifications.BroadcastInput) (int, error)
}

// IdentityFunc resolves the calling user, returning "" when unauthenticated.
type IdentityFunc func(r *http.Request) string

// UserIDHeader is read by HeaderIdentity.
const UserIDHeader = "X-User-ID"

// HeaderIdentity trusts the X-User-ID header set by the authenticating proxy.
func HeaderIdentity(r *http.Request) string {
	return r.Header.Get(UserIDHeader)
}

var errUnauthenticated = errors.New("unauthenticated")

// Option configures the router.
type Option func(*handlers)

// WithIdentity replaces HeaderIdentity.
func WithIdentity(fn IdentityFunc) Option {
	return func(h *handlers) {
		if fn != nil {
			h.identity = fn
		}
	}
}

// WithStream mounts the live event stream at GET /stream.
func WithStream(stream http.Handler) Option {
	return func(h *handlers) {
		h.stream = stream
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

type handlers struct {
	svc      Service
	identity IdentityFunc
	stream   http.Handler
	logger   *slog.Logger
}

// Router returns the notification API, meant to be mounted at /notifications.
//
//	GET    /              list (query: unread, limit, offset)
//	GET    /unread-count  unread counter
//	PATCH  /{id}/read     mark one as read
//	POST   /read-all      mark all as read
//	DELETE /{id}          delete one
//	POST   /manual        staff message to explicit users
//	POST   /broadcast     staff message to a role and/or company
//	GET    /stream        live events (when WithStream is set)
func Router(svc Service, opts ...Option) chi.Router {
	h := &handlers{
		svc:      svc,
		identity: HeaderIdentity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(h.requireIdentity)

	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/read-all", h.markAllRead)
	r.Post("/manual", h.sendManual)
	r.Post("/broadcast", h.sendBroadcast)
	if h.stream != nil {
		r.Method(http.MethodGet, "/stream", h.stream)
	}
	r.Patch("/{id}/read", h.markRead)
	r.Delete("/{id}", h.delete)

	return r
}

type userIDKey struct{}

func (h *handlers) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := h.identity(r)
		if userID == "" {
			h.writeError(w, r, errUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

// UserIDFromContext returns the caller resolved by the router's identity function.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
