package http

import (
	"net/http"
	"time"

	"github.com/peoplepulse/peoplepulse/pkg/httpx"
)

// HealthHandler answers the public liveness probe.
type HealthHandler struct {
	Env string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "PeoplePulse AI Backend Running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.Env,
	})
}
