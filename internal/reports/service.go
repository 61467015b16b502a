package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// Dispatcher hands a job id to the background queue. The queue must
// deliver it exactly once.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID int64) error
}

// JobStore persists report jobs. Implemented by Repository.
type JobStore interface {
	Insert(ctx context.Context, job Job) (Job, error)
	Get(ctx context.Context, id int64) (Job, error)
	GetOwned(ctx context.Context, id, requestedBy int64) (Job, error)
	List(ctx context.Context, requestedBy int64, filters ListFilters) ([]Job, int, error)
	MarkRunning(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64, filePath string, fileSize int64, rowCount int, duration time.Duration) error
	MarkFailed(ctx context.Context, id int64, msg string) error
	IncrementDownloadCount(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// ArtifactStore is the filesystem bookkeeping surface the service needs.
type ArtifactStore interface {
	Exists(path string) bool
	Remove(path string) error
}

// Service owns the report job lifecycle.
type Service struct {
	repo       JobStore
	store      ArtifactStore
	dispatcher Dispatcher
	logger     *slog.Logger
	expiry     time.Duration
	now        func() time.Time
}

// ServiceConfig wires the service dependencies. A zero Expiry disables
// job expiration.
type ServiceConfig struct {
	Repo       JobStore
	Store      ArtifactStore
	Dispatcher Dispatcher
	Logger     *slog.Logger
	Expiry     time.Duration
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:       cfg.Repo,
		store:      cfg.Store,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		expiry:     cfg.Expiry,
		now:        time.Now,
	}
}

// SubmitRequest is a validated report request.
type SubmitRequest struct {
	Name       string
	Type       ReportType
	Format     Format
	RangeStart time.Time
	RangeEnd   time.Time
	Filters    Filters
}

// Submit validates the request, persists a pending job and dispatches it
// for asynchronous execution. It returns without waiting for the report
// to build; callers poll Get for completion.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, identity shared.Identity) (Job, error) {
	if !ValidReportType(req.Type) {
		return Job{}, fmt.Errorf("%w: unknown report_type %q", shared.ErrValidation, req.Type)
	}
	if !ValidFormat(req.Format) {
		return Job{}, fmt.Errorf("%w: unknown format %q", shared.ErrValidation, req.Format)
	}
	if req.RangeStart.After(req.RangeEnd) {
		return Job{}, fmt.Errorf("%w: date_range_start must not be after date_range_end", shared.ErrValidation)
	}

	job := Job{
		Name:        req.Name,
		Type:        req.Type,
		Format:      req.Format,
		RequestedBy: identity.UserID,
		RangeStart:  req.RangeStart,
		RangeEnd:    req.RangeEnd,
		Filters:     req.Filters,
	}
	if s.expiry > 0 {
		expires := s.now().Add(s.expiry)
		job.ExpiresAt = &expires
	}

	created, err := s.repo.Insert(ctx, job)
	if err != nil {
		return Job{}, err
	}

	if err := s.dispatcher.Dispatch(ctx, created.ID); err != nil {
		// The job row stays pending; record the dispatch failure so it
		// does not look stuck forever.
		_ = s.repo.MarkFailed(ctx, created.ID, "dispatch failed: "+err.Error())
		return Job{}, err
	}

	s.logger.Info("report job submitted",
		slog.Int64("job_id", created.ID),
		slog.String("type", string(created.Type)),
		slog.String("format", string(created.Format)))
	return created, nil
}

// Get returns a job, restricted to the requester unless they are admin.
func (s *Service) Get(ctx context.Context, id int64, identity shared.Identity) (Job, error) {
	if identity.IsAdmin() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.GetOwned(ctx, id, identity.UserID)
}

// List returns jobs visible to the requester, newest first.
func (s *Service) List(ctx context.Context, filters ListFilters, identity shared.Identity) ([]Job, int, error) {
	if filters.Type != "" && !ValidReportType(filters.Type) {
		return nil, 0, fmt.Errorf("%w: unknown report_type %q", shared.ErrValidation, filters.Type)
	}
	owner := identity.UserID
	if identity.IsAdmin() {
		owner = 0
	}
	return s.repo.List(ctx, owner, filters)
}

// Download resolves the artifact for a completed job and counts the
// download. A completed job whose file vanished is a data integrity
// problem: logged distinctly, surfaced as not found.
func (s *Service) Download(ctx context.Context, id int64, identity shared.Identity) (Job, error) {
	job, err := s.Get(ctx, id, identity)
	if err != nil {
		return Job{}, err
	}
	if job.Status != StatusCompleted || job.FilePath == "" {
		return Job{}, fmt.Errorf("%w: report is not ready for download", shared.ErrNotReady)
	}
	if job.ExpiresAt != nil && job.ExpiresAt.Before(s.now()) {
		return Job{}, fmt.Errorf("%w: report has expired", shared.ErrNotFound)
	}
	if !s.store.Exists(job.FilePath) {
		s.logger.Error("report artifact missing for completed job",
			slog.Int64("job_id", job.ID),
			slog.String("path", job.FilePath))
		return Job{}, fmt.Errorf("%w: report file not found", shared.ErrNotFound)
	}
	if err := s.repo.IncrementDownloadCount(ctx, job.ID); err != nil {
		return Job{}, err
	}
	job.DownloadCount++
	return job, nil
}

// Delete removes the artifact file, then the job record.
func (s *Service) Delete(ctx context.Context, id int64, identity shared.Identity) error {
	job, err := s.Get(ctx, id, identity)
	if err != nil {
		return err
	}
	if err := s.store.Remove(job.FilePath); err != nil {
		return err
	}
	return s.repo.Delete(ctx, job.ID)
}
