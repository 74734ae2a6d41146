// Package app contains the application setup for the storefront.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/cart"
	catalogservice "github.com/abgdnv/storefront/internal/catalog/service"
	"github.com/abgdnv/storefront/internal/catalog/store"
	checkoutservice "github.com/abgdnv/storefront/internal/checkout/service"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/theme"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	CatalogService  catalogservice.CatalogService
	Cart            *cart.Store
	CheckoutService checkoutservice.CheckoutService
	Theme           *theme.Store
	Featured        int
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         *slog.Logger

	stopPersisting func()
}

// SetupDependencies loads the catalog and builds the stores and services.
// A nil publisher discards order events.
func SetupDependencies(cfg *config.Config, publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	products, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	catalog := catalogservice.NewService(products)
	logger.Info("Catalog loaded", "products", len(products.FindAll()), "path", cfg.Catalog.Path)

	cartStore := cart.NewStore()

	var pref theme.PreferenceStore
	if cfg.Theme.PreferenceFile != "" {
		pref = theme.NewFilePreference(cfg.Theme.PreferenceFile)
	}
	themeStore := theme.NewStore(theme.InitialDarkMode(pref, cfg.Theme.DefaultDark, logger))
	stopPersisting := func() {}
	if pref != nil {
		stopPersisting = theme.PersistOnChange(themeStore, pref, logger)
	}

	return &Dependencies{
		CatalogService:  catalog,
		Cart:            cartStore,
		CheckoutService: checkoutservice.NewService(cartStore, publisher, logger.With("component", "checkout")),
		Theme:           themeStore,
		Featured:        cfg.Catalog.Featured,
		Logger:          logger,
		stopPersisting:  stopPersisting,
	}, nil
}

// Close detaches the theme preference writer.
func (d *Dependencies) Close() {
	if d.stopPersisting != nil {
		d.stopPersisting()
	}
}

func loadCatalog(path string) (store.ProductStore, error) {
	if path == "" {
		products, err := store.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded catalog: %w", err)
		}
		return products, nil
	}
	products, err := store.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// SetupHttpHandler initializes the routes of the storefront application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) (http.Handler, *rest.Handler) {
	mux := server.NewChiRouter(deps.Logger)
	handler := wireRoutes(mux, deps)
	return mux, handler
}

// wireRoutes sets up the HTTP routes for the storefront application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) *rest.Handler {
	handler := rest.NewHandler(deps.CatalogService, deps.Cart, deps.CheckoutService, deps.Theme, deps.Featured, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", deps.MetricsHandler)
	}
	return handler
}

// SetupHttpServer creates and configures an HTTP server for the storefront application.
// Open event streams are closed when the server shuts down.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux, handler := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	srv := server.NewHTTPServer(httpCfg, config.ServiceName, mux)
	srv.RegisterOnShutdown(handler.CloseStreams)
	return srv
}
