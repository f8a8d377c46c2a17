package v1

import (
	"net/http"

	"storefront-backend/pkg/utils"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// GET /api/v1/notifications drains the session feed; each notice is delivered once.
func (h *NotificationHandler) Drain(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": s.Feed.Drain(),
	})
}
