package analytichttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// MountRoutes registers the analytics endpoints onto the router. The
// heavier aggregation endpoints carry a per-user rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/dashboard-summary", h.Dashboard)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/sales-performance", h.SalesPerformance)
		gr.Get("/trends", h.Trends)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if identity, ok := shared.IdentityFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(identity.UserID, 10), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
