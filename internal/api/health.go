package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/boardcamp/internal/db"
)

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	DB *db.Conn
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
