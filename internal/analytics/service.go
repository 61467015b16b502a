package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

const topLimit = 5

// Service computes sales analytics with Redis read-through caching.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// PerformanceParams controls the sales-performance query.
type PerformanceParams struct {
	Period          Granularity
	From            time.Time
	To              time.Time
	ComparePrevious bool
}

// PerformancePoint is one time bucket in the response.
type PerformancePoint struct {
	Period            string          `json:"period"`
	Revenue           decimal.Decimal `json:"revenue"`
	Quantity          int             `json:"quantity"`
	Orders            int             `json:"orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// PerformanceReport is the sales-performance analytics payload.
type PerformanceReport struct {
	Period        Granularity        `json:"period"`
	DataPoints    []PerformancePoint `json:"data_points"`
	TotalRevenue  decimal.Decimal    `json:"total_revenue"`
	RevenueGrowth *float64           `json:"revenue_growth"`
	TopProducts   []Rollup           `json:"top_products"`
	TopPharmacies []Rollup           `json:"top_pharmacies"`
}

// SalesPerformance aggregates active sales into time buckets plus top-5
// product and pharmacy rollups. Missing range bounds default to a
// period-dependent lookback window ending today.
func (s *Service) SalesPerformance(ctx context.Context, params PerformanceParams) (PerformanceReport, error) {
	if !ValidGranularity(params.Period) {
		return PerformanceReport{}, fmt.Errorf("%w: unknown period %q", shared.ErrValidation, params.Period)
	}
	if params.To.IsZero() {
		params.To = s.now()
	}
	if params.From.IsZero() {
		params.From = defaultLookback(params.To, params.Period)
	}
	if params.From.After(params.To) {
		return PerformanceReport{}, fmt.Errorf("%w: start date must not be after end date", shared.ErrValidation)
	}

	key, err := s.cache.BuildKey(ctx, "analytics", "performance",
		string(params.Period),
		params.From.Format("2006-01-02"), params.To.Format("2006-01-02"),
		strconv.FormatBool(params.ComparePrevious))
	if err != nil {
		return PerformanceReport{}, err
	}

	var report PerformanceReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.buildPerformance(ctx, params)
	})
	return report, err
}

func (s *Service) buildPerformance(ctx context.Context, params PerformanceParams) (PerformanceReport, error) {
	txs, err := s.repo.Transactions(ctx, TransactionFilters{From: params.From, To: params.To})
	if err != nil {
		return PerformanceReport{}, err
	}

	report := PerformanceReport{
		Period:        params.Period,
		DataPoints:    []PerformancePoint{},
		TotalRevenue:  decimal.Zero,
		TopProducts:   []Rollup{},
		TopPharmacies: []Rollup{},
	}
	if len(txs) == 0 {
		return report, nil
	}

	buckets := Aggregate(txs, params.Period)
	for _, b := range buckets {
		report.DataPoints = append(report.DataPoints, PerformancePoint{
			Period:            b.Key.Format("2006-01-02"),
			Revenue:           b.Revenue,
			Quantity:          b.Quantity,
			Orders:            b.Orders,
			AverageOrderValue: b.AverageOrderValue(),
		})
	}
	report.TotalRevenue = TotalRevenue(txs)

	if params.ComparePrevious && len(buckets) > 1 {
		recent := buckets[len(buckets)-1].Revenue
		previous := buckets[len(buckets)-2].Revenue
		if previous.IsPositive() {
			growth, _ := recent.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
			report.RevenueGrowth = &growth
		}
	}

	report.TopProducts = TopProducts(txs, topLimit)
	report.TopPharmacies = TopPharmacies(txs, topLimit)
	return report, nil
}

// DashboardSummary is the landing page metrics payload.
type DashboardSummary struct {
	TotalRevenue     decimal.Decimal    `json:"total_revenue"`
	RevenueGrowth    float64            `json:"revenue_growth"`
	TotalOrders      int                `json:"total_orders"`
	OrdersGrowth     float64            `json:"orders_growth"`
	ActivePharmacies int                `json:"active_pharmacies"`
	TopProducts      []Rollup           `json:"top_products"`
	RecentSales      []RecentSale       `json:"recent_sales"`
	MonthlyTrend     []PerformancePoint `json:"monthly_trend"`
	Alerts           []string           `json:"alerts"`
}

// Dashboard compares the trailing days window against the one before it
// and assembles headline metrics, top products, a recent sales feed and a
// six month revenue trend.
func (s *Service) Dashboard(ctx context.Context, days int) (DashboardSummary, error) {
	if days < 1 || days > 365 {
		return DashboardSummary{}, fmt.Errorf("%w: days must be between 1 and 365", shared.ErrValidation)
	}

	key, err := s.cache.BuildKey(ctx, "analytics", "dashboard", strconv.Itoa(days))
	if err != nil {
		return DashboardSummary{}, err
	}

	var summary DashboardSummary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.buildDashboard(ctx, days)
	})
	return summary, err
}

func (s *Service) buildDashboard(ctx context.Context, days int) (DashboardSummary, error) {
	end := s.now()
	start := end.AddDate(0, 0, -days)
	previousStart := start.AddDate(0, 0, -days)
	sixMonthsAgo := end.AddDate(0, 0, -180)

	var (
		current    []Transaction
		previous   []Transaction
		halfYear   []Transaction
		pharmacies int
		recent     []RecentSale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.repo.Transactions(gctx, TransactionFilters{From: start, To: end})
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.repo.Transactions(gctx, TransactionFilters{From: previousStart, To: start})
		return err
	})
	g.Go(func() error {
		var err error
		halfYear, err = s.repo.Transactions(gctx, TransactionFilters{From: sixMonthsAgo, To: end})
		return err
	})
	g.Go(func() error {
		var err error
		pharmacies, err = s.repo.ActivePharmacyCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentSales(gctx, 10)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}

	currentRevenue := TotalRevenue(current)
	previousRevenue := TotalRevenue(previous)

	summary := DashboardSummary{
		TotalRevenue:     currentRevenue,
		TotalOrders:      len(current),
		ActivePharmacies: pharmacies,
		TopProducts:      TopProducts(current, topLimit),
		RecentSales:      recent,
		MonthlyTrend:     []PerformancePoint{},
		Alerts:           []string{},
	}
	if summary.RecentSales == nil {
		summary.RecentSales = []RecentSale{}
	}

	if previousRevenue.IsPositive() {
		summary.RevenueGrowth, _ = currentRevenue.Sub(previousRevenue).
			Div(previousRevenue).Mul(decimal.NewFromInt(100)).Float64()
	}
	if len(previous) > 0 {
		summary.OrdersGrowth = float64(len(current)-len(previous)) / float64(len(previous)) * 100
	}

	for _, b := range Aggregate(halfYear, GranularityMonthly) {
		summary.MonthlyTrend = append(summary.MonthlyTrend, PerformancePoint{
			Period:            b.Key.Format("2006-01"),
			Revenue:           b.Revenue,
			Quantity:          b.Quantity,
			Orders:            b.Orders,
			AverageOrderValue: b.AverageOrderValue(),
		})
	}

	if summary.RevenueGrowth < -10 {
		summary.Alerts = append(summary.Alerts, "Revenue declined by more than 10% compared to previous period")
	}
	if float64(len(current)) < float64(len(previous))*0.8 {
		summary.Alerts = append(summary.Alerts, "Order volume is significantly lower than previous period")
	}
	return summary, nil
}

// Trend metrics.
const (
	MetricRevenue = "revenue"
	MetricOrders  = "orders"
)

// TrendParams controls the trend/forecast query.
type TrendParams struct {
	Metric  string
	Period  Granularity
	Horizon int
}

// TrendReport is the trend analysis payload.
type TrendReport struct {
	AnalysisName string          `json:"analysis_name"`
	Direction    string          `json:"trend_direction"`
	Strength     float64         `json:"trend_strength"`
	Forecast     []ForecastPoint `json:"forecast_data"`
	Period       Granularity     `json:"analysis_period"`
}

// TrendAnalysis estimates a linear trend over a period-dependent
// historical window and extrapolates Horizon future points.
func (s *Service) TrendAnalysis(ctx context.Context, params TrendParams) (TrendReport, error) {
	if params.Metric != MetricRevenue && params.Metric != MetricOrders {
		return TrendReport{}, fmt.Errorf("%w: unknown metric %q", shared.ErrValidation, params.Metric)
	}
	switch params.Period {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
	default:
		return TrendReport{}, fmt.Errorf("%w: unknown period %q", shared.ErrValidation, params.Period)
	}
	if params.Horizon < 1 || params.Horizon > 12 {
		return TrendReport{}, fmt.Errorf("%w: forecast horizon must be between 1 and 12", shared.ErrValidation)
	}

	key, err := s.cache.BuildKey(ctx, "analytics", "trends",
		params.Metric, string(params.Period), strconv.Itoa(params.Horizon))
	if err != nil {
		return TrendReport{}, err
	}

	var report TrendReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.buildTrend(ctx, params)
	})
	return report, err
}

func (s *Service) buildTrend(ctx context.Context, params TrendParams) (TrendReport, error) {
	end := s.now()
	var start time.Time
	switch params.Period {
	case GranularityDaily:
		start = end.AddDate(0, 0, -90)
	case GranularityWeekly:
		start = end.AddDate(0, 0, -7*52)
	default:
		start = end.AddDate(0, 0, -365)
	}

	txs, err := s.repo.Transactions(ctx, TransactionFilters{From: start, To: end})
	if err != nil {
		return TrendReport{}, err
	}

	report := TrendReport{
		AnalysisName: analysisName(params.Metric),
		Direction:    TrendStable,
		Forecast:     []ForecastPoint{},
		Period:       params.Period,
	}
	if len(txs) == 0 {
		return report, nil
	}

	buckets := Aggregate(txs, params.Period)
	values := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		if params.Metric == MetricOrders {
			values = append(values, float64(b.Orders))
		} else {
			v, _ := b.Revenue.Float64()
			values = append(values, v)
		}
	}

	trend := EstimateTrend(values, params.Horizon)
	report.Direction = trend.Direction
	report.Strength = trend.Strength
	if trend.Forecast != nil {
		report.Forecast = trend.Forecast
	}
	return report, nil
}

func analysisName(metric string) string {
	if metric == MetricOrders {
		return "Orders Trend Analysis"
	}
	return "Revenue Trend Analysis"
}

func defaultLookback(end time.Time, g Granularity) time.Time {
	switch g {
	case GranularityDaily:
		return end.AddDate(0, 0, -30)
	case GranularityWeekly:
		return end.AddDate(0, 0, -7*12)
	case GranularityMonthly:
		return end.AddDate(0, 0, -365)
	default:
		return end.AddDate(0, 0, -730)
	}
}
