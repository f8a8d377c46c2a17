package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

type WishlistHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewWishlistHandler(catalogUC *usecase.CatalogUsecase) *WishlistHandler {
	return &WishlistHandler{catalogUC: catalogUC}
}

type WishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, s.Wishlist.View())
}

// POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req WishlistRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		utils.WriteFieldErrors(w, "Validation failed", map[string]string{"productId": "is required"})
		return
	}

	// Removal only needs the id, so products that left the catalog can still be dropped.
	product := &domain.Product{ID: req.ProductID}
	if !s.Wishlist.IsInWishlist(req.ProductID) {
		var err error
		if product, err = h.catalogUC.GetProduct(r.Context(), req.ProductID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	res, err := s.Wishlist.Toggle(r.Context(), *product)
	if err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Str("product_id", req.ProductID).Msg("Wishlist: change not persisted")
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// GET /api/v1/wishlist/{productId}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id := r.PathValue("productId")
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"productId":  id,
		"inWishlist": s.Wishlist.IsInWishlist(id),
	})
}
