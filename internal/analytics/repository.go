package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionFilters narrows the transaction extraction query. Zero
// values mean no constraint.
type TransactionFilters struct {
	From        time.Time
	To          time.Time
	ProductIDs  []int64
	PharmacyIDs []int64
}

// RecentSale is a compact projection for the dashboard feed.
type RecentSale struct {
	ID         int64           `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"date"`
}

// Repository reads sale transactions joined with their dimensions.
type Repository interface {
	Transactions(ctx context.Context, filters TransactionFilters) ([]Transaction, error)
	ActivePharmacyCount(ctx context.Context) (int, error)
	RecentSales(ctx context.Context, limit int) ([]RecentSale, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Transactions(ctx context.Context, filters TransactionFilters) ([]Transaction, error) {
	query := `
		SELECT s.id, s.product_id, s.pharmacy_id,
		       p.name, p.code,
		       ph.name, ph.city || ', ' || ph.state,
		       s.quantity, s.unit_price, s.final_amount, s.occurred_at
		FROM sales s
		JOIN products p ON p.id = s.product_id
		JOIN pharmacies ph ON ph.id = s.pharmacy_id
		WHERE s.lifecycle = 'active'`
	args := []interface{}{}
	argCount := 0

	if !filters.From.IsZero() {
		argCount++
		query += ` AND s.occurred_at >= $` + strconv.Itoa(argCount)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		argCount++
		query += ` AND s.occurred_at <= $` + strconv.Itoa(argCount)
		args = append(args, filters.To)
	}
	if len(filters.ProductIDs) > 0 {
		argCount++
		query += ` AND s.product_id = ANY($` + strconv.Itoa(argCount) + `)`
		args = append(args, filters.ProductIDs)
	}
	if len(filters.PharmacyIDs) > 0 {
		argCount++
		query += ` AND s.pharmacy_id = ANY($` + strconv.Itoa(argCount) + `)`
		args = append(args, filters.PharmacyIDs)
	}
	query += ` ORDER BY s.occurred_at ASC, s.id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.SaleID, &tx.ProductID, &tx.PharmacyID,
			&tx.ProductName, &tx.ProductCode,
			&tx.PharmacyName, &tx.PharmacyLocation,
			&tx.Quantity, &tx.UnitPrice, &tx.Revenue, &tx.OccurredAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *repository) ActivePharmacyCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM pharmacies WHERE lifecycle = 'active'`,
	).Scan(&count)
	return count, err
}

func (r *repository) RecentSales(ctx context.Context, limit int) ([]RecentSale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, final_amount, occurred_at
		FROM sales
		WHERE lifecycle = 'active'
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []RecentSale
	for rows.Next() {
		var s RecentSale
		if err := rows.Scan(&s.ID, &s.Amount, &s.OccurredAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
