package pharmacies

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
	List(ctx context.Context, filters ListFilters) ([]Pharmacy, int, error)
	Get(ctx context.Context, id int64) (Pharmacy, error)
	Create(ctx context.Context, pharmacy Pharmacy) (Pharmacy, error)
	Update(ctx context.Context, id int64, pharmacy Pharmacy) error
	SetLifecycle(ctx context.Context, id int64, lifecycle string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const pharmacyColumns = `id, code, name, city, state, pharmacy_type, chain_name, license_number, lifecycle, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Pharmacy, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		ph := `$` + strconv.Itoa(argCount)
		where += ` AND (name ILIKE ` + ph + ` OR code ILIKE ` + ph + ` OR city ILIKE ` + ph + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.PharmacyType != "" {
		argCount++
		where += ` AND pharmacy_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.PharmacyType)
	}
	if filters.Lifecycle != "" {
		argCount++
		where += ` AND lifecycle = $` + strconv.Itoa(argCount)
		args = append(args, filters.Lifecycle)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pharmacies`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies` + where + ` ORDER BY name ASC`
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

	var items []Pharmacy
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Pharmacy, error) {
	row := r.db.QueryRow(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE id = $1`, id)
	p, err := scanPharmacy(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pharmacy{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, pharmacy Pharmacy) (Pharmacy, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO pharmacies (code, name, city, state, pharmacy_type, chain_name, license_number, lifecycle, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		pharmacy.Code, pharmacy.Name, pharmacy.City, pharmacy.State,
		pharmacy.PharmacyType, pharmacy.ChainName, pharmacy.LicenseNumber,
		pharmacy.Lifecycle, now, now,
	).Scan(&pharmacy.ID)
	if err != nil {
		return Pharmacy{}, err
	}
	pharmacy.CreatedAt = now
	pharmacy.UpdatedAt = now
	return pharmacy, nil
}

func (r *repository) Update(ctx context.Context, id int64, pharmacy Pharmacy) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE pharmacies
		SET code = $1, name = $2, city = $3, state = $4, pharmacy_type = $5,
		    chain_name = $6, license_number = $7, updated_at = $8
		WHERE id = $9`,
		pharmacy.Code, pharmacy.Name, pharmacy.City, pharmacy.State,
		pharmacy.PharmacyType, pharmacy.ChainName, pharmacy.LicenseNumber,
		time.Now(), id,
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
		`UPDATE pharmacies SET lifecycle = $1, updated_at = $2 WHERE id = $3`,
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

func scanPharmacy(row pgx.Row) (Pharmacy, error) {
	var p Pharmacy
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.City, &p.State, &p.PharmacyType,
		&p.ChainName, &p.LicenseNumber, &p.Lifecycle, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
