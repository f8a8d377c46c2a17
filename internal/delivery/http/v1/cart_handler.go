package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

// CartHandler serves the session cart. Products are resolved from the
// catalog so the cart always snapshots current price and stock.
type CartHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCartHandler(catalogUC *usecase.CatalogUsecase) *CartHandler {
	return &CartHandler{catalogUC: catalogUC}
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
}

type UpdateItemRequest struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, s.Cart.Snapshot())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		utils.WriteFieldErrors(w, "Validation failed", map[string]string{"productId": "is required"})
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := s.Cart.AddItem(*product, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// A new cart after a confirmed order starts a new checkout.
	s.Checkout.Edit()
	utils.WriteJSON(w, http.StatusOK, domain.CartResult{Cart: s.Cart.Snapshot(), Notification: n})
}

// PUT /api/v1/cart/items
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		utils.WriteFieldErrors(w, "Validation failed", map[string]string{"productId": "is required"})
		return
	}

	n, err := s.Cart.UpdateQuantity(req.ProductID, req.Color, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.CartResult{Cart: s.Cart.Snapshot(), Notification: n})
}

// DELETE /api/v1/cart/items/{productId}?color=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	n := s.Cart.RemoveItem(r.PathValue("productId"), r.URL.Query().Get("color"))
	utils.WriteJSON(w, http.StatusOK, domain.CartResult{Cart: s.Cart.Snapshot(), Notification: n})
}

// DELETE /api/v1/cart/products/{productId}
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	n := s.Cart.RemoveProduct(r.PathValue("productId"))
	utils.WriteJSON(w, http.StatusOK, domain.CartResult{Cart: s.Cart.Snapshot(), Notification: n})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	n := s.Cart.Clear()
	utils.WriteJSON(w, http.StatusOK, domain.CartResult{Cart: s.Cart.Snapshot(), Notification: n})
}
