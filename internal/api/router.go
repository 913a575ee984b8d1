// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"xpense-wallet/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router. The ledger routes are served
// both at the root and under /api.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = handler.DefaultTimeout
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)        // Add a request ID to the context
	r.Use(middleware.RealIP)           // Use the real IP address
	r.Use(middleware.Logger)           // Log HTTP requests
	r.Use(middleware.Recoverer)        // Recover from panics and return 500
	r.Use(middleware.Timeout(timeout)) // Bound request handling time

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	ledgerRoutes := func(r chi.Router) {
		r.Get("/data", ledgerHandler.GetData)
		r.Delete("/data", ledgerHandler.ClearData)
		r.Get("/summary", ledgerHandler.GetSummary)
		r.Post("/wallet/add", ledgerHandler.AddFunds)
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", ledgerHandler.AddExpense)
			r.Delete("/{id}", ledgerHandler.DeleteExpense)
		})
	}

	r.Group(ledgerRoutes)
	r.Route("/api", ledgerRoutes)

	logger.Debug("Ledger routes registered", "prefixes", []string{"/", "/api"})
	return r
}
