package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(day time.Time, qty int, revenue string) Transaction {
	return Transaction{
		Quantity:   qty,
		Revenue:    decimal.RequireFromString(revenue),
		OccurredAt: day,
	}
}

func TestAggregateDailyPreservesTotals(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(day1, 2, "10.10"),
		tx(day1, 1, "5.05"),
		tx(day2, 3, "7.35"),
	}

	buckets := Aggregate(txs, GranularityDaily)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	var revenue decimal.Decimal
	var quantity, orders int
	for _, b := range buckets {
		revenue = revenue.Add(b.Revenue)
		quantity += b.Quantity
		orders += b.Orders
	}
	if !revenue.Equal(decimal.RequireFromString("22.50")) {
		t.Fatalf("expected bucket revenue to sum to 22.50, got %s", revenue)
	}
	if quantity != 6 {
		t.Fatalf("expected total quantity 6, got %d", quantity)
	}
	if orders != 3 {
		t.Fatalf("expected total orders 3, got %d", orders)
	}

	// March 3rd had no sales: sparse output, ascending order.
	if !buckets[0].Key.Before(buckets[1].Key) {
		t.Fatalf("expected ascending bucket keys, got %v then %v", buckets[0].Key, buckets[1].Key)
	}
	if buckets[0].Orders != 2 || buckets[1].Orders != 1 {
		t.Fatalf("unexpected per-bucket orders: %d, %d", buckets[0].Orders, buckets[1].Orders)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if buckets := Aggregate(nil, GranularityMonthly); len(buckets) != 0 {
		t.Fatalf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestBucketKeyTruncation(t *testing.T) {
	// 2026-03-05 is a Thursday; its week starts Monday 2026-03-02.
	thursday := time.Date(2026, 3, 5, 13, 45, 0, 0, time.UTC)

	cases := []struct {
		granularity Granularity
		want        time.Time
	}{
		{GranularityDaily, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{GranularityWeekly, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{GranularityMonthly, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{GranularityQuarterly, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := BucketKey(thursday, c.granularity); !got.Equal(c.want) {
			t.Fatalf("%s: expected %v, got %v", c.granularity, c.want, got)
		}
	}

	// Sundays belong to the week of the previous Monday.
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if got := BucketKey(sunday, GranularityWeekly); !got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected Sunday to map to Monday 2026-03-02, got %v", got)
	}
}

func TestAverageOrderValueZeroOrders(t *testing.T) {
	b := Bucket{Revenue: decimal.RequireFromString("100")}
	if !b.AverageOrderValue().IsZero() {
		t.Fatalf("expected zero AOV for zero orders, got %s", b.AverageOrderValue())
	}

	b = Bucket{Revenue: decimal.RequireFromString("30"), Orders: 3}
	if !b.AverageOrderValue().Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected AOV 10, got %s", b.AverageOrderValue())
	}
}

func TestTopProductsRanksByRevenue(t *testing.T) {
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ProductID: 1, ProductName: "Amoxicillin", ProductCode: "AMX", Quantity: 1, Revenue: decimal.RequireFromString("50"), OccurredAt: day},
		{ProductID: 2, ProductName: "Ibuprofen", ProductCode: "IBU", Quantity: 2, Revenue: decimal.RequireFromString("120"), OccurredAt: day},
		{ProductID: 1, ProductName: "Amoxicillin", ProductCode: "AMX", Quantity: 1, Revenue: decimal.RequireFromString("30"), OccurredAt: day},
		{ProductID: 3, ProductName: "Paracetamol", ProductCode: "PCM", Quantity: 5, Revenue: decimal.RequireFromString("15"), OccurredAt: day},
	}

	top := TopProducts(txs, 2)
	if len(top) != 2 {
		t.Fatalf("expected top 2, got %d", len(top))
	}
	if top[0].Name != "Ibuprofen" || top[1].Name != "Amoxicillin" {
		t.Fatalf("unexpected ranking: %s, %s", top[0].Name, top[1].Name)
	}
	if !top[1].Revenue.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("expected Amoxicillin revenue 80, got %s", top[1].Revenue)
	}
	if top[1].Quantity != 2 || top[1].Orders != 2 {
		t.Fatalf("unexpected rollup totals: qty %d orders %d", top[1].Quantity, top[1].Orders)
	}
}

func TestTopPharmaciesCarriesLocation(t *testing.T) {
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{PharmacyID: 7, PharmacyName: "Central", PharmacyLocation: "Austin, TX", Quantity: 1, Revenue: decimal.RequireFromString("10"), OccurredAt: day},
	}
	top := TopPharmacies(txs, 5)
	if len(top) != 1 {
		t.Fatalf("expected 1 rollup, got %d", len(top))
	}
	if top[0].Label != "Austin, TX" {
		t.Fatalf("expected location label, got %q", top[0].Label)
	}
}
