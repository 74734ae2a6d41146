package rest

import (
	"errors"
	"net/http"

	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/web"
)

// CheckoutSummary returns the priced cart shown on the checkout page.
func (h *Handler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.checkout.Summary(r.Context()))
}

// PlaceOrder places a mock order for the current cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	order, err := h.checkout.PlaceOrder(r.Context())
	if err != nil {
		if errors.Is(err, storeerrors.ErrEmptyCart) {
			mLogger.WarnContext(r.Context(), "Checkout attempted with an empty cart")
			web.RespondError(w, mLogger, http.StatusConflict, "Cart is empty")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error placing order", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to place order")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, order)
}
