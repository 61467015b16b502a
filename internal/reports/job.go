package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pharmapulse/pharmapulse/internal/reports/artifact"
	"github.com/pharmapulse/pharmapulse/internal/shared"
	"github.com/pharmapulse/pharmapulse/jobs"
)

// JobConfig wires dependencies required by the worker job.
type JobConfig struct {
	Repo      JobStore
	Extractor *Extractor
	Store     *artifact.Store
	Logger    *slog.Logger
}

// GenerateJob processes report generation requests coming from the
// queue. Any failure inside Handle terminates only the one job: the
// record is marked failed and the error never crashes the worker.
type GenerateJob struct {
	repo      JobStore
	extractor *Extractor
	store     *artifact.Store
	logger    *slog.Logger
}

// NewGenerateJob constructs the queue handler.
func NewGenerateJob(cfg JobConfig) *GenerateJob {
	return &GenerateJob{repo: cfg.Repo, extractor: cfg.Extractor, store: cfg.Store, logger: cfg.Logger}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *GenerateJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.repo == nil || j.extractor == nil || j.store == nil {
		return fmt.Errorf("report job not configured")
	}
	var payload jobs.ReportGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.ReportID == 0 {
		return asynq.SkipRetry
	}

	job, err := j.repo.Get(ctx, payload.ReportID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return asynq.SkipRetry
		}
		return err
	}
	if job.Terminal() {
		return nil
	}
	if err := j.repo.MarkRunning(ctx, job.ID); err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			current, loadErr := j.repo.Get(ctx, job.ID)
			if loadErr == nil && current.Status != StatusPending {
				return nil
			}
		}
		return err
	}

	started := time.Now()

	ds, err := j.extractor.Extract(ctx, job)
	if err != nil {
		_ = j.repo.MarkFailed(ctx, job.ID, err.Error())
		return err
	}
	path, err := j.store.Write(ds, string(job.Format), string(job.Type), job.ID)
	if err != nil {
		_ = j.repo.MarkFailed(ctx, job.ID, err.Error())
		return err
	}

	size := j.store.Size(path)
	if err := j.repo.MarkCompleted(ctx, job.ID, path, size, len(ds.Rows), time.Since(started)); err != nil {
		return err
	}

	if j.logger != nil {
		j.logger.Info("report ready",
			slog.Int64("job_id", job.ID),
			slog.String("file", path),
			slog.Int("rows", len(ds.Rows)),
			slog.Int64("bytes", size))
	}
	return nil
}
