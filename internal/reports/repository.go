package reports

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// Repository persists report jobs. Status transitions are guarded at the
// SQL level so a duplicate delivery cannot run a claimed job twice.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `id, report_name, report_type, format, requested_by, range_start, range_end, filters, status, COALESCE(file_path,''), COALESCE(file_size,0), COALESCE(row_count,0), COALESCE(duration_seconds,0), COALESCE(error_message,''), download_count, created_at, expires_at`

// Insert stores a new pending job and returns it with its id assigned.
func (r *Repository) Insert(ctx context.Context, job Job) (Job, error) {
	filters, err := json.Marshal(job.Filters)
	if err != nil {
		return Job{}, err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO report_jobs (report_name, report_type, format, requested_by, range_start, range_end, filters, status, download_count, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', 0, NOW(), $8)
		RETURNING id, created_at`,
		job.Name, job.Type, job.Format, job.RequestedBy,
		job.RangeStart, job.RangeEnd, filters, job.ExpiresAt,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return Job{}, err
	}
	job.Status = StatusPending
	return job, nil
}

// Get loads a job by id.
func (r *Repository) Get(ctx context.Context, id int64) (Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM report_jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, shared.ErrNotFound
	}
	return job, err
}

// GetOwned loads a job by id restricted to its requester.
func (r *Repository) GetOwned(ctx context.Context, id, requestedBy int64) (Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM report_jobs WHERE id = $1 AND requested_by = $2`,
		id, requestedBy)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, shared.ErrNotFound
	}
	return job, err
}

// List returns jobs newest first. A positive requestedBy restricts the
// listing to that requester.
func (r *Repository) List(ctx context.Context, requestedBy int64, filters ListFilters) ([]Job, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if requestedBy > 0 {
		argCount++
		where += ` AND requested_by = $` + strconv.Itoa(argCount)
		args = append(args, requestedBy)
	}
	if filters.Type != "" {
		argCount++
		where += ` AND report_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Type)
	}
	if filters.Status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM report_jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + jobColumns + ` FROM report_jobs` + where + ` ORDER BY created_at DESC, id DESC`
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

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}

// MarkRunning claims a pending job. ErrInvalidStatus means the job was
// already claimed or finished.
func (r *Repository) MarkRunning(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE report_jobs
		SET status = 'running', error_message = NULL
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidStatus
	}
	return nil
}

// MarkCompleted stores the artifact metadata and finishes the job.
func (r *Repository) MarkCompleted(ctx context.Context, id int64, filePath string, fileSize int64, rowCount int, duration time.Duration) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE report_jobs
		SET status = 'completed', file_path = $2, file_size = $3, row_count = $4, duration_seconds = $5
		WHERE id = $1`,
		id, filePath, fileSize, rowCount, duration.Seconds())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkFailed records the failure and finishes the job. File fields stay
// unset.
func (r *Repository) MarkFailed(ctx context.Context, id int64, msg string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE report_jobs SET status = 'failed', error_message = $2 WHERE id = $1`,
		id, truncateError(msg))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementDownloadCount bumps the counter atomically so concurrent
// downloads never lose updates.
func (r *Repository) IncrementDownloadCount(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE report_jobs SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the job record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM report_jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (Job, error) {
	var (
		job Job
		raw []byte
	)
	err := row.Scan(&job.ID, &job.Name, &job.Type, &job.Format, &job.RequestedBy,
		&job.RangeStart, &job.RangeEnd, &raw, &job.Status,
		&job.FilePath, &job.FileSize, &job.RowCount, &job.Duration,
		&job.ErrorMessage, &job.DownloadCount, &job.CreatedAt, &job.ExpiresAt)
	if err != nil {
		return Job{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &job.Filters); err != nil {
			return Job{}, err
		}
	}
	return job, nil
}

func truncateError(msg string) string {
	const limit = 500
	if len(msg) > limit {
		return msg[:limit]
	}
	return msg
}
