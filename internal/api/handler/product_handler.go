package handler

import (
	"errors"
	"net/http"

	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(ps *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProducts)          // GET /api/products
	r.Get("/{productID}", h.getProduct) // GET /api/products/{id}
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	body, err := h.productService.ListProducts(r.Context())
	if err != nil {
		respondWithProductError(w, err)
		return
	}
	common.RespondWithRawJSON(w, http.StatusOK, body)
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	body, err := h.productService.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondWithProductError(w, err)
		return
	}
	common.RespondWithRawJSON(w, http.StatusOK, body)
}

func respondWithProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrNotFound) {
		common.RespondWithError(w, http.StatusNotFound, common.MsgProductNotFound)
		return
	}
	common.RespondWithError(w, http.StatusInternalServerError, common.MsgUpstreamUnavailable)
}
