// Package rest exposes the catalog, cart, checkout and theme over HTTP.
package rest

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/internal/catalog/service"
	"github.com/abgdnv/storefront/internal/catalog/store"
	checkoutservice "github.com/abgdnv/storefront/internal/checkout/service"
	"github.com/abgdnv/storefront/internal/theme"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// CartStore is the cart as seen by the HTTP layer.
type CartStore interface {
	AddToCart(product store.Product, quantity int) error
	RemoveFromCart(productID int)
	UpdateQuantity(productID int, quantity int)
	ClearCart()
	Snapshot() cart.State
	Subscribe(fn func(cart.State)) func()
}

// ThemeStore is the theme as seen by the HTTP layer.
type ThemeStore interface {
	Snapshot() theme.State
	Toggle() bool
	Subscribe(fn func(theme.State)) func()
}

type Handler struct {
	catalog  service.CatalogService
	cart     CartStore
	checkout checkoutservice.CheckoutService
	theme    ThemeStore
	featured int
	validate *validator.Validate
	upgrader websocket.Upgrader
	logger   *slog.Logger

	closeOnce sync.Once
	closing   chan struct{}
}

// NewHandler creates the storefront REST handler.
// featured is the number of products returned by the featured listing when no limit is given.
func NewHandler(catalog service.CatalogService, cart CartStore, checkout checkoutservice.CheckoutService, theme ThemeStore, featured int, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		theme:    theme,
		featured: featured,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:  logger.With("component", "rest"),
		closing: make(chan struct{}),
	}
}

// RegisterRoutes registers the HTTP routes of the storefront.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured", h.FeaturedProducts)
			r.Get("/{id}", h.FindProduct)
		})
		r.Get("/categories", h.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Get("/events", h.CartEvents)
			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.CheckoutSummary)
			r.Post("/", h.PlaceOrder)
		})

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", h.GetTheme)
			r.Post("/toggle", h.ToggleTheme)
			r.Get("/events", h.ThemeEvents)
		})
	})
	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CloseStreams ends every open event stream. It is registered as a server shutdown hook
// because hijacked websocket connections are not tracked by http.Server.Shutdown.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, found := web.GetRequestID(r.Context())
	if !found {
		reqID = "unknown"
	}
	return h.logger.With("request_id", reqID)
}
