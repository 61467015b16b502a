package analytics

import (
	"math"
	"testing"
)

func TestEstimateTrendIncreasing(t *testing.T) {
	trend := EstimateTrend([]float64{10, 20, 30}, 2)

	if trend.Direction != TrendIncreasing {
		t.Fatalf("expected increasing, got %s", trend.Direction)
	}
	if math.Abs(trend.Strength-0.5) > 1e-9 {
		t.Fatalf("expected strength 0.5, got %f", trend.Strength)
	}
	if len(trend.Forecast) != 2 {
		t.Fatalf("expected 2 forecast points, got %d", len(trend.Forecast))
	}
	if trend.Forecast[0].Offset != 1 || trend.Forecast[0].Value != 40 {
		t.Fatalf("unexpected first forecast point: %+v", trend.Forecast[0])
	}
	if trend.Forecast[1].Offset != 2 || trend.Forecast[1].Value != 50 {
		t.Fatalf("unexpected second forecast point: %+v", trend.Forecast[1])
	}
}

func TestEstimateTrendConstantSeries(t *testing.T) {
	trend := EstimateTrend([]float64{40, 40, 40, 40}, 3)

	if trend.Direction != TrendStable {
		t.Fatalf("expected stable, got %s", trend.Direction)
	}
	if trend.Strength != 0 {
		t.Fatalf("expected zero strength, got %f", trend.Strength)
	}
	for _, p := range trend.Forecast {
		if p.Value != 40 {
			t.Fatalf("expected flat forecast at 40, got %f at offset %d", p.Value, p.Offset)
		}
	}
}

func TestEstimateTrendDecreasingClampsAtZero(t *testing.T) {
	trend := EstimateTrend([]float64{30, 20, 10}, 3)

	if trend.Direction != TrendDecreasing {
		t.Fatalf("expected decreasing, got %s", trend.Direction)
	}
	want := []float64{0, 0, 0}
	for i, p := range trend.Forecast {
		if p.Value != want[i] {
			t.Fatalf("expected clamped forecast %f at offset %d, got %f", want[i], p.Offset, p.Value)
		}
	}
}

func TestEstimateTrendNegativeSeriesStrength(t *testing.T) {
	// Heavy discounts can push bucket revenue below zero; strength must
	// stay a non-negative ratio.
	trend := EstimateTrend([]float64{-10, -20, -30}, 2)

	if trend.Direction != TrendDecreasing {
		t.Fatalf("expected decreasing, got %s", trend.Direction)
	}
	if trend.Strength != 0 {
		t.Fatalf("expected zero strength for negative mean, got %f", trend.Strength)
	}
	for _, p := range trend.Forecast {
		if p.Value != 0 {
			t.Fatalf("expected clamped forecast at 0, got %f at offset %d", p.Value, p.Offset)
		}
	}
}

func TestEstimateTrendShortSeries(t *testing.T) {
	trend := EstimateTrend([]float64{5, 7}, 2)

	if trend.Direction != TrendStable {
		t.Fatalf("expected stable for two points, got %s", trend.Direction)
	}
	if trend.Strength != 0 {
		t.Fatalf("expected zero strength, got %f", trend.Strength)
	}
	// Zero slope: the forecast holds at the last observation.
	for _, p := range trend.Forecast {
		if p.Value != 7 {
			t.Fatalf("expected flat forecast at 7, got %f", p.Value)
		}
	}
}

func TestEstimateTrendEmptySeries(t *testing.T) {
	trend := EstimateTrend(nil, 4)

	if trend.Direction != TrendStable {
		t.Fatalf("expected stable, got %s", trend.Direction)
	}
	if len(trend.Forecast) != 0 {
		t.Fatalf("expected no forecast for empty series, got %d points", len(trend.Forecast))
	}
}
