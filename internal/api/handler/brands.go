package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsync/internal/api/response"
	"github.com/mcoot/pointsync/internal/content"
)

// BrandsHandler serves the cached brand catalog
type BrandsHandler struct {
	cache *content.Cache
}

// NewBrandsHandler creates a new brands handler
func NewBrandsHandler(cache *content.Cache) *BrandsHandler {
	return &BrandsHandler{
		cache: cache,
	}
}

// List handles GET /api/v1/brands
func (h *BrandsHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.cache.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Brands{Brands: brands})
}

// Get handles GET /api/v1/brands/{id}
func (h *BrandsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	brand, err := h.cache.Brand(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, brand)
}

// Invalidate handles POST /api/v1/brands/invalidate
func (h *BrandsHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	h.cache.Invalidate()
	response.NoContent(w)
}
