package analytichttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pharmapulse/pharmapulse/internal/analytics"
	"github.com/pharmapulse/pharmapulse/internal/platform/httpx"
	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// AnalyticsService defines the analytics data contract used by the handler.
type AnalyticsService interface {
	SalesPerformance(ctx context.Context, params analytics.PerformanceParams) (analytics.PerformanceReport, error)
	Dashboard(ctx context.Context, days int) (analytics.DashboardSummary, error)
	TrendAnalysis(ctx context.Context, params analytics.TrendParams) (analytics.TrendReport, error)
}

// Handler serves the analytics endpoints.
type Handler struct {
	logger  *slog.Logger
	service AnalyticsService
}

func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	return &Handler{logger: logger, service: service}
}

// SalesPerformance requires analyst privileges.
func (h *Handler) SalesPerformance(w http.ResponseWriter, r *http.Request) {
	if !requireAnalyst(w, r) {
		return
	}
	q := r.URL.Query()

	params := analytics.PerformanceParams{
		Period:          analytics.GranularityMonthly,
		ComparePrevious: true,
	}
	if raw := q.Get("period"); raw != "" {
		params.Period = analytics.Granularity(raw)
	}
	if raw := q.Get("compare_previous"); raw != "" {
		params.ComparePrevious = raw == "true"
	}
	var ok bool
	if params.From, ok = parseDate(w, r, q.Get("start_date"), "start_date"); !ok {
		return
	}
	if params.To, ok = parseDate(w, r, q.Get("end_date"), "end_date"); !ok {
		return
	}

	report, err := h.service.SalesPerformance(r.Context(), params)
	if err != nil {
		h.logger.Error("sales performance failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// Dashboard is available to every authenticated user.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, r, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	summary, err := h.service.Dashboard(r.Context(), days)
	if err != nil {
		h.logger.Error("dashboard summary failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Trends requires analyst privileges.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	if !requireAnalyst(w, r) {
		return
	}
	q := r.URL.Query()

	params := analytics.TrendParams{
		Metric:  analytics.MetricRevenue,
		Period:  analytics.GranularityMonthly,
		Horizon: 3,
	}
	if raw := q.Get("metric"); raw != "" {
		params.Metric = raw
	}
	if raw := q.Get("period"); raw != "" {
		params.Period = analytics.Granularity(raw)
	}
	if raw := q.Get("forecast_periods"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, r, http.StatusBadRequest, "forecast_periods must be an integer")
			return
		}
		params.Horizon = parsed
	}

	report, err := h.service.TrendAnalysis(r.Context(), params)
	if err != nil {
		h.logger.Error("trend analysis failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func parseDate(w http.ResponseWriter, r *http.Request, raw, field string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}

func requireAnalyst(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return false
	}
	if !identity.CanAnalyze() {
		httpx.RespondError(w, r, shared.ErrForbidden)
		return false
	}
	return true
}
