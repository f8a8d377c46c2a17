package v1

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/pkg/utils"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler reports the database state; db may be nil when no database is configured.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "db": "disabled"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["db"] = "unavailable"
			utils.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["db"] = "connected"
	}
	utils.WriteJSON(w, http.StatusOK, status)
}
