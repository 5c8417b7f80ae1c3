package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/simaogato/assetboard-backend/internal/logging"
	"github.com/simaogato/assetboard-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetboard-backend/internal/usecase/exchange"
	"github.com/simaogato/assetboard-backend/internal/usecase/ledger"
	"github.com/simaogato/assetboard-backend/internal/usecase/snapshot"
)

// Services bundles the use cases the HTTP API exposes
type Services struct {
	Dashboard *dashboard.DashboardService
	Ledger    *ledger.LedgerService
	Snapshot  *snapshot.SnapshotService
	Exchange  *exchange.ExchangeRateService
}

// Options configures the router
type Options struct {
	APIToken       string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the HTTP API router.
func NewRouter(services Services, opts Options) http.Handler {
	logger := logging.WithComponent(opts.Logger, "http")
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(requestLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	h := &handler{services: services}

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(tokenAuthMiddleware(opts.APIToken))

		// Dashboard
		r.Get("/api/overview", h.getOverview)
		r.Get("/api/distribution", h.getDistribution)
		r.Get("/api/trend", h.getTrend)
		r.Get("/api/sankey", h.getSankey)
		r.Get("/api/stats", h.getStats)
		r.Get("/api/receivables", h.getReceivables)

		// Transactions
		r.Get("/api/transactions", h.getTransactions)
		r.Post("/api/transactions", h.addTransaction)
		r.Get("/api/categories", h.getCategories)

		// Snapshots
		r.Post("/api/snapshots", h.captureSnapshot)

		// Exchange rates
		r.Get("/api/exchange-rates", h.getExchangeRates)
		r.Put("/api/exchange-rates", h.setExchangeRate)
	})

	return r
}

type handler struct {
	services Services
}
