package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportGenerate is the task type for report file generation.
	TaskReportGenerate = "report:generate"
)

// ReportGeneratePayload identifies the report job to execute.
type ReportGeneratePayload struct {
	ReportID int64 `json:"report_id"`
}

// NewReportGenerateTask constructs an Asynq task for a report job.
func NewReportGenerateTask(reportID int64) (*asynq.Task, error) {
	data, err := json.Marshal(ReportGeneratePayload{ReportID: reportID})
	if err != nil {
		return nil, err
	}
	// MaxRetry 0: a report job either completes or is marked failed by its
	// own handler; the queue must never re-deliver it.
	return asynq.NewTask(TaskReportGenerate, data, asynq.MaxRetry(0)), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReportGenerate enqueues a report-generation task.
func (c *Client) EnqueueReportGenerate(ctx context.Context, reportID int64) (*asynq.TaskInfo, error) {
	task, err := NewReportGenerateTask(reportID)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Dispatch enqueues a report-generation task, discarding the task info.
func (c *Client) Dispatch(ctx context.Context, reportID int64) error {
	_, err := c.EnqueueReportGenerate(ctx, reportID)
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
