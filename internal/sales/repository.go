package sales

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Sale, int, error)
	Get(ctx context.Context, id int64) (Sale, error)
	Create(ctx context.Context, sale Sale) (Sale, error)
	Update(ctx context.Context, sale Sale) error
	SetLifecycle(ctx context.Context, id int64, lifecycle string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `id, product_id, pharmacy_id, quantity, unit_price, discount_amount, tax_amount, total_amount, final_amount, occurred_at, lifecycle, created_by, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductID > 0 {
		argCount++
		where += ` AND product_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ProductID)
	}
	if filters.PharmacyID > 0 {
		argCount++
		where += ` AND pharmacy_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.PharmacyID)
	}
	if !filters.From.IsZero() {
		argCount++
		where += ` AND occurred_at >= $` + strconv.Itoa(argCount)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		argCount++
		where += ` AND occurred_at <= $` + strconv.Itoa(argCount)
		args = append(args, filters.To)
	}
	if filters.Lifecycle != "" {
		argCount++
		where += ` AND lifecycle = $` + strconv.Itoa(argCount)
		args = append(args, filters.Lifecycle)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + where + ` ORDER BY occurred_at DESC, id DESC`
	if filters.PerPage > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.PerPage)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.PerPage
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	row := r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, sale Sale) (Sale, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales (product_id, pharmacy_id, quantity, unit_price, discount_amount, tax_amount, total_amount, final_amount, occurred_at, lifecycle, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		sale.ProductID, sale.PharmacyID, sale.Quantity, sale.UnitPrice,
		sale.DiscountAmount, sale.TaxAmount, sale.TotalAmount, sale.FinalAmount,
		sale.OccurredAt, sale.Lifecycle, sale.CreatedBy, now, now,
	).Scan(&sale.ID)
	if err != nil {
		return Sale{}, err
	}
	sale.CreatedAt = now
	sale.UpdatedAt = now
	return sale, nil
}

func (r *repository) Update(ctx context.Context, sale Sale) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sales
		SET quantity = $1, unit_price = $2, discount_amount = $3, tax_amount = $4,
		    total_amount = $5, final_amount = $6, occurred_at = $7, updated_at = $8
		WHERE id = $9`,
		sale.Quantity, sale.UnitPrice, sale.DiscountAmount, sale.TaxAmount,
		sale.TotalAmount, sale.FinalAmount, sale.OccurredAt, time.Now(), sale.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetLifecycle(ctx context.Context, id int64, lifecycle string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET lifecycle = $1, updated_at = $2 WHERE id = $3`,
		lifecycle, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.PharmacyID, &s.Quantity,
		&s.UnitPrice, &s.DiscountAmount, &s.TaxAmount, &s.TotalAmount,
		&s.FinalAmount, &s.OccurredAt, &s.Lifecycle, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}
