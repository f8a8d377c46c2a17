package v1

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// writeError maps usecase errors to HTTP statuses. Unknown errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteFieldErrors(w, "Validation failed", verr.Fields)
	case errors.Is(err, domain.ErrProductNotFound):
		utils.WriteError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrBrandNotFound):
		utils.WriteError(w, http.StatusNotFound, "Brand not found")
	case errors.Is(err, domain.ErrLineNotFound):
		utils.WriteError(w, http.StatusNotFound, "Item is not in the cart")
	case errors.Is(err, domain.ErrInvalidColor):
		utils.WriteError(w, http.StatusBadRequest, "Color is not available for this product")
	case errors.Is(err, domain.ErrCartEmpty):
		utils.WriteError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, domain.ErrSubmissionInFlight):
		utils.WriteError(w, http.StatusConflict, "Order is already being processed")
	case errors.Is(err, domain.ErrPersistence):
		utils.WriteError(w, http.StatusBadGateway, "Your order could not be placed, please try again")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Msg("Unhandled error")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// sessionFrom returns the shopper's session; a missing session is a wiring bug.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*usecase.Session, bool) {
	s, ok := usecase.SessionFromContext(r.Context())
	if !ok {
		logger.WithContext(r.Context()).Error().Msg("No session in request context")
		utils.WriteError(w, http.StatusInternalServerError, "Session unavailable")
		return nil, false
	}
	return s, true
}

func userFrom(r *http.Request) *domain.User {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	return user
}

// NotFound is the fallback for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "Not found")
}
