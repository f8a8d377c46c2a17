package v1

import (
	"net/http"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/utils"
)

const enumsCacheKey = "system:config:enums"

type ConfigHandler struct {
	cache    cache.CacheService
	shipping domain.ShippingPolicy
}

func NewConfigHandler(cache cache.CacheService, shipping domain.ShippingPolicy) *ConfigHandler {
	return &ConfigHandler{cache: cache, shipping: shipping}
}

// GET /api/v1/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if val, found := h.cache.Get(enumsCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := map[string]interface{}{
		"paymentMethods": domain.PaymentMethods,
		"states":         domain.MexicanStates,
		"checkoutStates": []domain.CheckoutState{domain.CheckoutEditing, domain.CheckoutProcessing, domain.CheckoutConfirmed},
		"shipping":       h.shipping,
	}
	h.cache.Set(enumsCacheKey, response, time.Hour)

	utils.WriteJSON(w, http.StatusOK, response)
}
