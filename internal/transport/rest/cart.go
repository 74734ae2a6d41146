package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/storefront/internal/cart"
	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the cart. Quantity defaults to one.
type AddItemRequest struct {
	ProductID int  `json:"product_id" validate:"required,gt=0"`
	Quantity  *int `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateItemRequest sets the quantity of a line item.
// Quantities below one are accepted and leave the item unchanged.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartItemView struct {
	ProductID         int             `json:"product_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Image             string          `json:"image,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FormattedSubtotal string          `json:"formatted_subtotal"`
}

// CartView is the JSON representation of a cart state.
type CartView struct {
	Items          []CartItemView  `json:"items"`
	ItemsCount     int             `json:"items_count"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	Currency       string          `json:"currency"`
	Version        uint64          `json:"version"`
}

func newCartView(state cart.State) CartView {
	items := make([]CartItemView, 0, len(state.Items))
	for _, li := range state.Items {
		subtotal := li.Subtotal()
		items = append(items, CartItemView{
			ProductID:         li.Product.ID,
			Name:              li.Product.Name,
			Category:          li.Product.Category,
			Image:             li.Product.Image,
			Price:             li.Product.Price,
			Quantity:          li.Quantity,
			Subtotal:          subtotal,
			FormattedSubtotal: cart.FormatPrice(subtotal),
		})
	}
	total := state.Total()
	return CartView{
		Items:          items,
		ItemsCount:     state.ItemsCount(),
		Total:          total,
		FormattedTotal: cart.FormatPrice(total),
		Currency:       cart.Currency,
		Version:        state.Version,
	}
}

// GetCart returns the current cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, newCartView(h.cart.Snapshot()))
}

// AddItem adds a catalog product to the cart and returns the updated cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req AddItemRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}
	quantity := cart.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	mLogger.DebugContext(r.Context(), "Received request to add product to cart", "ID", req.ProductID, "quantity", quantity)

	product, err := h.catalog.FindByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", req.ProductID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", req.ProductID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", req.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", req.ProductID))
		return
	}

	if err := h.cart.AddToCart(*product, quantity); err != nil {
		if errors.Is(err, storeerrors.ErrInvalidArgument) {
			mLogger.WarnContext(r.Context(), "Product rejected by cart", "ID", req.ProductID, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding product to cart", "ID", req.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add product to cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Product added to cart", "ID", req.ProductID, "quantity", quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, newCartView(h.cart.Snapshot()))
}

// UpdateItem sets the quantity of a line item and returns the updated cart.
// Unknown products are ignored.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update cart item", "ID", id, "quantity", *req.Quantity)
	h.cart.UpdateQuantity(id, *req.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, newCartView(h.cart.Snapshot()))
}

// RemoveItem removes a line item. Removing an absent item succeeds.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	h.cart.RemoveFromCart(id)
	mLogger.InfoContext(r.Context(), "Product removed from cart", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	h.cart.ClearCart()
	mLogger.InfoContext(r.Context(), "Cart cleared")
	w.WriteHeader(http.StatusNoContent)
}
