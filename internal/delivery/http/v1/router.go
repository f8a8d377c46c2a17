package v1

import "net/http"

// Handlers groups everything Register mounts.
type Handlers struct {
	Catalog      *CatalogHandler
	Cart         *CartHandler
	Wishlist     *WishlistHandler
	Checkout     *CheckoutHandler
	Orders       *OrderHandler
	Notification *NotificationHandler
	Config       *ConfigHandler
	Health       *HealthHandler

	// Session wraps the routes that read or change per-shopper state.
	// Catalog, config and health never allocate a session.
	Session func(http.Handler) http.Handler
}

func (h Handlers) Register(mux *http.ServeMux) {
	session := h.Session
	if session == nil {
		session = func(next http.Handler) http.Handler { return next }
	}
	withSession := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, session(fn))
	}

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/enums", h.Config.GetEnums)

	// Catalog
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/catalog/facets", h.Catalog.Facets)
	mux.HandleFunc("GET /api/v1/brands", h.Catalog.ListBrands)
	mux.HandleFunc("GET /api/v1/brands/{slug}", h.Catalog.GetBrand)

	// Cart
	withSession("GET /api/v1/cart", h.Cart.GetCart)
	withSession("DELETE /api/v1/cart", h.Cart.ClearCart)
	withSession("POST /api/v1/cart/items", h.Cart.AddItem)
	withSession("PUT /api/v1/cart/items", h.Cart.UpdateItem)
	withSession("DELETE /api/v1/cart/items/{productId}", h.Cart.RemoveItem)
	withSession("DELETE /api/v1/cart/products/{productId}", h.Cart.RemoveProduct)

	// Wishlist
	withSession("GET /api/v1/wishlist", h.Wishlist.GetWishlist)
	withSession("POST /api/v1/wishlist/toggle", h.Wishlist.Toggle)
	withSession("GET /api/v1/wishlist/{productId}", h.Wishlist.Contains)

	// Checkout & Orders
	withSession("GET /api/v1/checkout", h.Checkout.GetCheckout)
	withSession("POST /api/v1/checkout", h.Checkout.Submit)
	mux.HandleFunc("GET /api/v1/orders", h.Orders.ListOrders)

	withSession("GET /api/v1/notifications", h.Notification.Drain)

	// Health Check
	mux.HandleFunc("GET /api/v1/health", h.Health.Health)
	mux.HandleFunc("GET /health", h.Health.Health) // Support root health check for Load Balancers

	mux.HandleFunc("/", NotFound)
}
