package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: uc}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.checkoutUC.View(s))
}

// POST /api/v1/checkout
// A repeated request with the same Idempotency-Key returns the stored order with 200.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var form domain.CheckoutForm
	if err := utils.DecodeJSON(r, &form); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	res, err := h.checkoutUC.Submit(r.Context(), s, form, userFrom(r), r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	utils.WriteJSON(w, status, res)
}
