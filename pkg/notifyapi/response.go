package notifyapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// Envelope is the response wrapper for every endpoint.
type Envelope struct {
	Data  any       `json:"data,omitempty"`
	Meta  *PageMeta `json:"meta,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// PageMeta describes the page returned by the list endpoint.
type PageMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// APIError is the error body.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	// Failed lists recipients whose notification could not be created.
	Failed []string `json:"failed_recipients,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeJSON(w, status, Envelope{Error: &apiErr})
}

func mapError(err error) (int, APIError) {
	var fanoutErr *notifications.FanoutError
	if errors.As(err, &fanoutErr) {
		return http.StatusMultiStatus, APIError{
			Code:    "partial_failure",
			Message: "Some notifications could not be created",
			Failed:  fanoutErr.FailedRecipients(),
		}
	}

	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "Authentication is required"}
	case errors.Is(err, notifications.ErrNotificationNotFound):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "Notification not found"}
	case errors.Is(err, notifications.ErrRecipientNotFound):
		return http.StatusNotFound, APIError{Code: "recipient_not_found", Message: "Recipient not found"}
	case errors.Is(err, notifications.ErrCompanyNotFound):
		return http.StatusNotFound, APIError{Code: "company_not_found", Message: "Company not found"}
	case errors.Is(err, notifications.ErrInvalidInput):
		apiErr := APIError{Code: "invalid_input", Message: "The request is invalid"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			apiErr.Code = "validation_error"
			apiErr.Message = "Validation failed"
			for _, fe := range verrs {
				apiErr.Details = append(apiErr.Details, FieldError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
				})
			}
		}
		return http.StatusBadRequest, apiErr
	default:
		return http.StatusInternalServerError, APIError{Code: "internal_error", Message: "An unexpected error occurred"}
	}
}
