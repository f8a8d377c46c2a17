package v1

import (
	"net/http"
	"strconv"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// GET /api/v1/products?q=&color=&collection=&brand=&min_price=&max_price=&in_stock=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	inStock, _ := strconv.ParseBool(query.Get("in_stock"))
	filter := domain.ProductFilter{
		Query:       query.Get("q"),
		Colors:      utils.SplitCSV(query.Get("color")),
		Collections: utils.SplitCSV(query.Get("collection")),
		Brand:       query.Get("brand"),
		MinPrice:    utils.ParseOptionalFloat(query.Get("min_price")),
		MaxPrice:    utils.ParseOptionalFloat(query.Get("max_price")),
		InStockOnly: inStock,
	}

	products, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  products,
		"total": len(products),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.catalogUC.Facets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, facets)
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogUC.ListBrands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalogUC.GetBrand(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}
