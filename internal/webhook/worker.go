package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// DeliveryArgs is one webhook delivery attempt's River job payload.
type DeliveryArgs struct {
	WebhookID string `json:"webhook_id"`
	Event     string `json:"event"`
	Payload   []byte `json:"payload"`
	Attempt   int    `json:"attempt"`
}

// Kind returns the job kind identifier for webhook deliveries.
func (DeliveryArgs) Kind() string { return "webhook_delivery" }

// InsertOpts returns default insert options for webhook delivery jobs.
// MaxAttempts is 1: River's own retry bookkeeping is unused here because
// retry scheduling is driven by this package's own backoff chain.
func (DeliveryArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       "webhook_deliveries",
		MaxAttempts: 1,
	}
}

// Worker processes webhook delivery jobs by delegating to Engine.Deliver.
type Worker struct {
	river.WorkerDefaults[DeliveryArgs]
	pool   *pgxpool.Pool
	engine *Engine
}

// NewWorker builds a Worker bound to the given pool and engine.
func NewWorker(pool *pgxpool.Pool, engine *Engine) *Worker {
	return &Worker{pool: pool, engine: engine}
}

// Work loads the target webhook and performs the delivery attempt.
func (w *Worker) Work(ctx context.Context, job *river.Job[DeliveryArgs]) error {
	var wh domain.Webhook
	var eventsRaw, headersRaw []byte
	err := w.pool.QueryRow(ctx, `
		SELECT id, name, url, events, headers, secret, is_active, created_at
		FROM webhooks WHERE id = $1
	`, job.Args.WebhookID).Scan(&wh.ID, &wh.Name, &wh.URL, &eventsRaw, &headersRaw, &wh.Secret, &wh.IsActive, &wh.CreatedAt)
	if err != nil {
		return river.JobCancel(fmt.Errorf("load webhook %s: %w", job.Args.WebhookID, err))
	}
	if !wh.IsActive {
		return river.JobCancel(fmt.Errorf("webhook %s is no longer active", job.Args.WebhookID))
	}
	_ = json.Unmarshal(eventsRaw, &wh.Events)
	if len(headersRaw) > 0 {
		_ = json.Unmarshal(headersRaw, &wh.Headers)
	}

	return w.engine.Deliver(ctx, wh, job.Args.Event, job.Args.Payload, job.Args.Attempt)
}
