package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapulse/pharmapulse/internal/analytics"
	"github.com/pharmapulse/pharmapulse/internal/reports/artifact"
	"github.com/pharmapulse/pharmapulse/jobs"
)

type stubTxRepo struct {
	txs []analytics.Transaction
	err error
}

func (s *stubTxRepo) Transactions(ctx context.Context, filters analytics.TransactionFilters) ([]analytics.Transaction, error) {
	return s.txs, s.err
}

func (s *stubTxRepo) ActivePharmacyCount(ctx context.Context) (int, error) { return 0, nil }

func (s *stubTxRepo) RecentSales(ctx context.Context, limit int) ([]analytics.RecentSale, error) {
	return nil, nil
}

func sampleTransactions() []analytics.Transaction {
	day := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	return []analytics.Transaction{
		{SaleID: 1, ProductID: 1, ProductName: "Amoxicillin", ProductCode: "AMX-500", PharmacyName: "Central", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50"), Revenue: decimal.RequireFromString("25.00"), OccurredAt: day},
		{SaleID: 2, ProductID: 2, ProductName: "Ibuprofen", ProductCode: "IBU-200", PharmacyName: "Central", Quantity: 1, UnitPrice: decimal.RequireFromString("8.00"), Revenue: decimal.RequireFromString("8.00"), OccurredAt: day},
		{SaleID: 3, ProductID: 1, ProductName: "Amoxicillin", ProductCode: "AMX-500", PharmacyName: "Westside", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50"), Revenue: decimal.RequireFromString("37.50"), OccurredAt: day},
	}
}

func newTestJob(t *testing.T, store *memStore, repo analytics.Repository) *GenerateJob {
	t.Helper()
	return NewGenerateJob(JobConfig{
		Repo:      store,
		Extractor: NewExtractor(repo),
		Store:     artifact.NewStore(t.TempDir()),
		Logger:    testLogger(),
	})
}

func generateTask(t *testing.T, reportID int64) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(jobs.ReportGeneratePayload{ReportID: reportID})
	require.NoError(t, err)
	return asynq.NewTask(jobs.TaskReportGenerate, data)
}

func seedJob(t *testing.T, store *memStore, reportType ReportType, format Format) Job {
	t.Helper()
	job, err := store.Insert(context.Background(), Job{
		Name:        "test report",
		Type:        reportType,
		Format:      format,
		RequestedBy: 7,
		RangeStart:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return job
}

func TestHandleGeneratesArtifact(t *testing.T) {
	store := newMemStore()
	handler := newTestJob(t, store, &stubTxRepo{txs: sampleTransactions()})
	job := seedJob(t, store, TypeSalesSummary, FormatCSV)

	err := handler.Handle(context.Background(), generateTask(t, job.ID))
	require.NoError(t, err)

	done, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, 3, done.RowCount)
	assert.Greater(t, done.FileSize, int64(0))
	assert.True(t, handler.store.Exists(done.FilePath), "artifact file should exist at %s", done.FilePath)
}

func TestHandleProductAnalysisGroupsRows(t *testing.T) {
	store := newMemStore()
	handler := newTestJob(t, store, &stubTxRepo{txs: sampleTransactions()})
	job := seedJob(t, store, TypeProductAnalysis, FormatCSV)

	err := handler.Handle(context.Background(), generateTask(t, job.ID))
	require.NoError(t, err)

	done, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	// Two distinct products across three sales.
	assert.Equal(t, 2, done.RowCount)
}

func TestHandleBadPayloadSkipsRetry(t *testing.T) {
	handler := newTestJob(t, newMemStore(), &stubTxRepo{})

	err := handler.Handle(context.Background(), asynq.NewTask(jobs.TaskReportGenerate, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = handler.Handle(context.Background(), generateTask(t, 0))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleUnknownJobSkipsRetry(t *testing.T) {
	handler := newTestJob(t, newMemStore(), &stubTxRepo{})

	err := handler.Handle(context.Background(), generateTask(t, 404))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleExtractionFailureMarksFailed(t *testing.T) {
	store := newMemStore()
	handler := newTestJob(t, store, &stubTxRepo{err: fmt.Errorf("db unreachable")})
	job := seedJob(t, store, TypeSalesSummary, FormatCSV)

	err := handler.Handle(context.Background(), generateTask(t, job.ID))
	require.Error(t, err)

	failed, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "db unreachable")
}

func TestHandleTerminalJobIsNoop(t *testing.T) {
	store := newMemStore()
	handler := newTestJob(t, store, &stubTxRepo{txs: sampleTransactions()})
	job := seedJob(t, store, TypeSalesSummary, FormatCSV)
	require.NoError(t, store.MarkFailed(context.Background(), job.ID, "previous attempt"))

	err := handler.Handle(context.Background(), generateTask(t, job.ID))
	require.NoError(t, err)

	unchanged, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, unchanged.Status)
	assert.Equal(t, "previous attempt", unchanged.ErrorMessage)
}
