package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Tools         int    `json:"tools"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealth returns an http.HandlerFunc for GET /health. The gateway is
// "ok" as long as it can answer; a broken registry degrades it.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok"}

		if !g.startedAt.IsZero() {
			resp.UptimeSeconds = int64(time.Since(g.startedAt).Seconds())
		}

		if g.store != nil {
			count, err := g.store.Count(r.Context())
			if err != nil {
				resp.Status = "degraded"
			}
			resp.Tools = count
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
