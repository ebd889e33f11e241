package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meshpay/router/internal/ledger"
	"github.com/meshpay/router/internal/registry"
	"github.com/meshpay/router/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	ledgerSvc *ledger.Service,
	reg *registry.Registry,
	txnRepo *repository.TransactionRepo,
) http.Handler {
	h := &Handlers{
		ledger:  ledgerSvc,
		reg:     reg,
		txnRepo: txnRepo,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Routing.
		r.Post("/transactions", h.CreateTransaction)
		r.Post("/route/preview", h.PreviewRoute)

		// Transactions.
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)

		// Conflicts.
		r.Get("/conflicts", h.ListConflicts)
		r.Post("/conflicts/{id}/resolve", h.ResolveConflict)

		// Metrics.
		r.Get("/metrics", h.GetMetrics)
		r.Get("/dashboard", h.GetDashboard)

		// Reference data.
		r.Get("/processors", h.ListProcessors)
		r.Get("/merchants", h.ListMerchants)
	})

	return r
}
