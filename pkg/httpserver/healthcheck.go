package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler runs every probe with a per-request timeout and reports
// {"status":"ok"} with 200, or {"status":"unavailable"} with 503 and the
// failing checks. Without probes it acts as a liveness endpoint.
func HealthHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		resp := healthResponse{Status: "ok"}
		code := http.StatusOK
		for _, c := range checks {
			status := "ok"
			if err := c.Probe(ctx); err != nil {
				status = "fail"
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
				log.LogAttrs(ctx, slog.LevelError, "Health check failed",
					slog.String("check", c.Name),
					logger.Error(err),
				)
			}
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			resp.Checks[c.Name] = status
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
