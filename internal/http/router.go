package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/agency/internal/config"
	"github.com/MrJamesThe3rd/agency/internal/http/auth"
	"github.com/MrJamesThe3rd/agency/internal/http/categorize"
	"github.com/MrJamesThe3rd/agency/internal/http/contract"
	"github.com/MrJamesThe3rd/agency/internal/http/expense"
	"github.com/MrJamesThe3rd/agency/internal/http/export"
	"github.com/MrJamesThe3rd/agency/internal/http/importcsv"
	"github.com/MrJamesThe3rd/agency/internal/http/ledger"
	"github.com/MrJamesThe3rd/agency/internal/http/respond"
	"github.com/MrJamesThe3rd/agency/internal/http/transaction"
)

type Handlers struct {
	Contracts    *contract.Handler
	Expenses     *expense.Handler
	Transactions *transaction.Handler
	Ledger       *ledger.Handler
	Import       *importcsv.Handler
	Categorize   *categorize.Handler
	Export       *export.Handler
}

func New(cfg *config.Config, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", respond.SyncHeader},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))

		r.Route("/contracts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Contracts.Routes(r)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expenses.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/ledger", h.Ledger.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/categories", h.Categorize.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
