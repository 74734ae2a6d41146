package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/storefront/internal/catalog/service"
	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/web"
)

// ListProducts returns the catalog, optionally narrowed by the category and q query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	filter := service.Filter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}
	mLogger.DebugContext(r.Context(), "Received request to list products", "category", filter.Category, "q", filter.Query)
	list := h.catalog.FindAll(r.Context(), filter)
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FeaturedProducts returns the first products of the catalog.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, int32(h.featured))
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.catalog.Featured(r.Context(), int(limit)))
}

// FindProduct retrieves a product by its ID.
func (h *Handler) FindProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.catalog.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Categories returns the distinct product categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.catalog.Categories(r.Context()))
}
