package notifyapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// maxBodyBytes bounds manual and broadcast request bodies.
const maxBodyBytes = 64 << 10

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := notifications.ListOptions{}

	var err error
	if v := q.Get("limit"); v != "" {
		if opts.Limit, err = strconv.Atoi(v); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a number", notifications.ErrInvalidInput))
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if opts.Offset, err = strconv.Atoi(v); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: offset must be a number", notifications.ErrInvalidInput))
			return
		}
	}
	if v := q.Get("unread"); v != "" {
		if opts.UnreadOnly, err = strconv.ParseBool(v); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: unread must be a boolean", notifications.ErrInvalidInput))
			return
		}
	}

	list, err := h.svc.GetForUser(r.Context(), UserIDFromContext(r.Context()), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}

	limit := opts.Limit
	switch {
	case limit <= 0:
		limit = notifications.DefaultPageSize
	case limit > notifications.MaxPageSize:
		limit = notifications.MaxPageSize
	}
	writeJSON(w, http.StatusOK, Envelope{
		Data: list,
		Meta: &PageMeta{Limit: limit, Offset: max(opts.Offset, 0), Count: len(list)},
	})
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.GetUnreadCount(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Data: map[string]int{"unread": count}})
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	notif, err := h.svc.MarkAsRead(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Data: notif})
}

func (h *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.MarkAllAsRead(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Data: map[string]int{"updated": count}})
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), UserIDFromContext(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) sendManual(w http.ResponseWriter, r *http.Request) {
	var in notifications.ManualInput
	if !h.decode(w, r, &in) {
		return
	}

	created, err := h.svc.SendManual(r.Context(), UserIDFromContext(r.Context()), in)
	if err != nil {
		if notifications.IsPartialFailure(err) {
			status, apiErr := mapError(err)
			writeJSON(w, status, Envelope{Data: map[string]int{"created": len(created)}, Error: &apiErr})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Data: map[string]int{"created": len(created)}})
}

func (h *handlers) sendBroadcast(w http.ResponseWriter, r *http.Request) {
	var in notifications.BroadcastInput
	if !h.decode(w, r, &in) {
		return
	}

	count, err := h.svc.SendBroadcast(r.Context(), UserIDFromContext(r.Context()), in)
	if err != nil {
		if notifications.IsPartialFailure(err) {
			status, apiErr := mapError(err)
			writeJSON(w, status, Envelope{Data: map[string]int{"created": count}, Error: &apiErr})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Data: map[string]int{"created": count}})
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: malformed JSON body: %w", notifications.ErrInvalidInput, err))
		return false
	}
	return true
}
