package httpadapter

import (
	"context"
	"net/http"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	pinger domain_todo.Pinger
}

func NewHealthHandler(p domain_todo.Pinger) *HealthHandler {
	return &HealthHandler{pinger: p}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness はストアに Ping が通るかだけを見る
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
