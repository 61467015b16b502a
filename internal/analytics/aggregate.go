package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the time bucket width for aggregation.
type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

// ValidGranularity reports whether g is a known granularity.
func ValidGranularity(g Granularity) bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityQuarterly:
		return true
	}
	return false
}

// Transaction is a read-only projection of a sale joined with its
// product and pharmacy dimensions.
type Transaction struct {
	SaleID           int64
	ProductID        int64
	PharmacyID       int64
	ProductName      string
	ProductCode      string
	PharmacyName     string
	PharmacyLocation string
	Quantity         int
	UnitPrice        decimal.Decimal
	Revenue          decimal.Decimal
	OccurredAt       time.Time
}

// Bucket is one time-grouped aggregate.
type Bucket struct {
	Key      time.Time       `json:"period"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Orders   int             `json:"orders"`
}

// AverageOrderValue is revenue per order, zero when the bucket has no orders.
func (b Bucket) AverageOrderValue() decimal.Decimal {
	if b.Orders == 0 {
		return decimal.Zero
	}
	return b.Revenue.Div(decimal.NewFromInt(int64(b.Orders)))
}

// BucketKey truncates ts to the start of its period. Weeks start Monday;
// months and quarters truncate to their first day.
func BucketKey(ts time.Time, g Granularity) time.Time {
	y, m, d := ts.Date()
	switch g {
	case GranularityWeekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, ts.Location())
	case GranularityQuarterly:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, ts.Location())
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
	}
}

// Aggregate groups transactions into time buckets at the requested
// granularity. Buckets are returned in ascending chronological order;
// periods with no transactions are absent.
func Aggregate(txs []Transaction, g Granularity) []Bucket {
	grouped := make(map[time.Time]*Bucket)
	for _, tx := range txs {
		key := BucketKey(tx.OccurredAt, g)
		b, ok := grouped[key]
		if !ok {
			b = &Bucket{Key: key}
			grouped[key] = b
		}
		b.Revenue = b.Revenue.Add(tx.Revenue)
		b.Quantity += tx.Quantity
		b.Orders++
	}

	buckets := make([]Bucket, 0, len(grouped))
	for _, b := range grouped {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key.Before(buckets[j].Key)
	})
	return buckets
}

// Rollup is a dimension-grouped aggregate, independent of time bucketing.
type Rollup struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Orders   int             `json:"orders"`
}

// TopProducts groups transactions by product and returns the top n by
// revenue, descending. Label carries the product code.
func TopProducts(txs []Transaction, n int) []Rollup {
	return topN(txs, n, func(tx Transaction) (int64, string, string) {
		return tx.ProductID, tx.ProductName, tx.ProductCode
	})
}

// TopPharmacies groups transactions by pharmacy and returns the top n by
// revenue, descending. Label carries the pharmacy location.
func TopPharmacies(txs []Transaction, n int) []Rollup {
	return topN(txs, n, func(tx Transaction) (int64, string, string) {
		return tx.PharmacyID, tx.PharmacyName, tx.PharmacyLocation
	})
}

func topN(txs []Transaction, n int, dim func(Transaction) (int64, string, string)) []Rollup {
	grouped := make(map[int64]*Rollup)
	var order []int64
	for _, tx := range txs {
		id, name, label := dim(tx)
		r, ok := grouped[id]
		if !ok {
			r = &Rollup{Name: name, Label: label}
			grouped[id] = r
			order = append(order, id)
		}
		r.Revenue = r.Revenue.Add(tx.Revenue)
		r.Quantity += tx.Quantity
		r.Orders++
	}

	rollups := make([]Rollup, 0, len(grouped))
	for _, id := range order {
		rollups = append(rollups, *grouped[id])
	}
	sort.SliceStable(rollups, func(i, j int) bool {
		return rollups[i].Revenue.GreaterThan(rollups[j].Revenue)
	})
	if n > 0 && len(rollups) > n {
		rollups = rollups[:n]
	}
	return rollups
}

// TotalRevenue sums revenue over all transactions.
func TotalRevenue(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Revenue)
	}
	return total
}
