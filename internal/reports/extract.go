package reports

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pharmapulse/pharmapulse/internal/analytics"
	"github.com/pharmapulse/pharmapulse/internal/reports/artifact"
)

// Extractor turns a job's parameters into a flat dataset using the
// shared transaction projection.
type Extractor struct {
	repo analytics.Repository
}

func NewExtractor(repo analytics.Repository) *Extractor {
	return &Extractor{repo: repo}
}

// Extract dispatches on report type. Unknown types fall back to the flat
// sales summary projection.
func (e *Extractor) Extract(ctx context.Context, job Job) (artifact.Dataset, error) {
	txs, err := e.repo.Transactions(ctx, analytics.TransactionFilters{
		From:        job.RangeStart,
		To:          job.RangeEnd,
		ProductIDs:  job.Filters.ProductIDs,
		PharmacyIDs: job.Filters.PharmacyIDs,
	})
	if err != nil {
		return artifact.Dataset{}, err
	}

	switch job.Type {
	case TypeProductAnalysis:
		return productAnalysisDataset(txs), nil
	default:
		return salesSummaryDataset(txs), nil
	}
}

func salesSummaryDataset(txs []analytics.Transaction) artifact.Dataset {
	ds := artifact.Dataset{
		Columns: []string{"Sale ID", "Sale Date", "Product", "Product Code", "Pharmacy", "Quantity", "Unit Price", "Total Amount"},
		Rows:    make([][]string, 0, len(txs)),
	}
	for _, tx := range txs {
		ds.Rows = append(ds.Rows, []string{
			strconv.FormatInt(tx.SaleID, 10),
			tx.OccurredAt.Format("2006-01-02"),
			tx.ProductName,
			tx.ProductCode,
			tx.PharmacyName,
			strconv.Itoa(tx.Quantity),
			tx.UnitPrice.StringFixed(2),
			tx.Revenue.StringFixed(2),
		})
	}
	return ds
}

func productAnalysisDataset(txs []analytics.Transaction) artifact.Dataset {
	type productTotals struct {
		name      string
		code      string
		quantity  int
		revenue   decimal.Decimal
		orders    int
		priceSum  decimal.Decimal
	}

	grouped := make(map[int64]*productTotals)
	var order []int64
	for _, tx := range txs {
		t, ok := grouped[tx.ProductID]
		if !ok {
			t = &productTotals{name: tx.ProductName, code: tx.ProductCode}
			grouped[tx.ProductID] = t
			order = append(order, tx.ProductID)
		}
		t.quantity += tx.Quantity
		t.revenue = t.revenue.Add(tx.Revenue)
		t.priceSum = t.priceSum.Add(tx.UnitPrice)
		t.orders++
	}

	ds := artifact.Dataset{
		Columns: []string{"Product Name", "Product Code", "Total Quantity Sold", "Total Revenue", "Total Orders", "Average Price"},
		Rows:    make([][]string, 0, len(grouped)),
	}
	for _, id := range order {
		t := grouped[id]
		avg := decimal.Zero
		if t.orders > 0 {
			avg = t.priceSum.Div(decimal.NewFromInt(int64(t.orders)))
		}
		ds.Rows = append(ds.Rows, []string{
			t.name,
			t.code,
			strconv.Itoa(t.quantity),
			t.revenue.StringFixed(2),
			strconv.Itoa(t.orders),
			avg.StringFixed(2),
		})
	}
	return ds
}
