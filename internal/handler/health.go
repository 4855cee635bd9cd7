package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/ashfall/internal/logger"
)

// ReadinessTimeout bounds every dependency ping of /readyz
const ReadinessTimeout = 2 * time.Second

// Pinger is anything /readyz can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Check is one named dependency probed by /readyz
type Check struct {
	Name   string
	Pinger Pinger
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz pings every check and reports ready only when all answer.
// With no checks the stores live in memory, which is always ready.
func HandleReadyz(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK, Message: MsgNoExternalStores})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Pinger.Ping(ctx); err != nil {
				logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "check", c.Name, "error", err)
				resp.Checks[c.Name] = StatusUnavailable
				resp.Status = StatusUnavailable
				continue
			}
			resp.Checks[c.Name] = StatusOK
		}

		status := http.StatusOK
		if resp.Status != StatusOK {
			status = http.StatusServiceUnavailable
			resp.Message = MsgDependencyUnavailable
		}
		respondJSON(w, status, resp)
	}
}
