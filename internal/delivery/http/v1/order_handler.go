package v1

import (
	"net/http"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: uc}
}

// GET /api/v1/orders?email=
// Signed-in shoppers may omit email; the token's email is used.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		if user := userFrom(r); user != nil {
			email = user.Email
		}
	}

	orders, err := h.orderUC.GetOrdersByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  orders,
		"total": len(orders),
	})
}
