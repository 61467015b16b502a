package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/pharmapulse/pharmapulse/internal/analytics/http"
	"github.com/pharmapulse/pharmapulse/internal/auth"
	"github.com/pharmapulse/pharmapulse/internal/masterdata/pharmacies"
	"github.com/pharmapulse/pharmapulse/internal/masterdata/products"
	reporthttp "github.com/pharmapulse/pharmapulse/internal/reports/http"
	"github.com/pharmapulse/pharmapulse/internal/sales"
	"github.com/pharmapulse/pharmapulse/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    *auth.Middleware
	ProductsHandler   *products.Handler
	PharmaciesHandler *pharmacies.Handler
	SalesHandler      *sales.Handler
	AnalyticsHandler  *analytichttp.Handler
	ReportsHandler    *reporthttp.Handler
	JobHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)
			if params.ProductsHandler != nil {
				r.Route("/products", params.ProductsHandler.MountRoutes)
			}
			if params.PharmaciesHandler != nil {
				r.Route("/pharmacies", params.PharmaciesHandler.MountRoutes)
			}
			if params.SalesHandler != nil {
				r.Route("/sales", params.SalesHandler.MountRoutes)
			}
			if params.AnalyticsHandler != nil {
				r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
			}
			if params.ReportsHandler != nil {
				r.Route("/reports", params.ReportsHandler.MountRoutes)
			}
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
