package analytics

import "math"

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// ForecastPoint is one extrapolated future value.
type ForecastPoint struct {
	Offset int     `json:"period"`
	Value  float64 `json:"forecasted_value"`
}

// Trend is the outcome of a linear trend estimate over a chronological
// series. This is a naive first/last slope model with no seasonality or
// confidence intervals.
type Trend struct {
	Direction string          `json:"trend_direction"`
	Strength  float64         `json:"trend_strength"`
	Forecast  []ForecastPoint `json:"forecast_data"`
}

// EstimateTrend fits a straight line through the first and last points of
// values and extrapolates horizon future points from the last observation.
// Series of two or fewer points yield a stable trend with zero slope.
// Forecast values are clamped at zero.
func EstimateTrend(values []float64, horizon int) Trend {
	var slope float64
	t := Trend{Direction: TrendStable}

	if len(values) > 2 {
		slope = (values[len(values)-1] - values[0]) / float64(len(values)-1)
		switch {
		case slope > 0:
			t.Direction = TrendIncreasing
		case slope < 0:
			t.Direction = TrendDecreasing
		}
		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))
		if mean > 0 {
			t.Strength = math.Abs(slope) / mean
		}
	}

	if len(values) > 0 && horizon > 0 {
		last := values[len(values)-1]
		t.Forecast = make([]ForecastPoint, 0, horizon)
		for i := 1; i <= horizon; i++ {
			t.Forecast = append(t.Forecast, ForecastPoint{
				Offset: i,
				Value:  math.Max(0, last+slope*float64(i)),
			})
		}
	}
	return t
}
