// Package webhook implements the Webhook Delivery Engine (component H):
// per-event HTTP delivery to subscribed webhooks with HMAC signing,
// retryable error classification, and exponential backoff, queued on
// River so deliveries survive process restarts.
//
// Import Path: github.com/shepherd-cms/corepress/internal/webhook
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/config"
	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Engine triggers and performs webhook deliveries. Triggering persists
// a River job per matching webhook; the worker (Worker in this package)
// performs the actual HTTP call and chains retries.
type Engine struct {
	pool       *pgxpool.Pool
	river      *river.Client[pgx.Tx]
	httpClient *http.Client
	cfg        config.WebhookConfig
	logger     *zap.Logger
}

// NewEngine builds an Engine. riverClient may be nil in tests that only
// exercise delivery logic directly via Deliver.
func NewEngine(pool *pgxpool.Pool, riverClient *river.Client[pgx.Tx], cfg config.WebhookConfig, logger *zap.Logger) *Engine {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		pool:       pool,
		river:      riverClient,
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// SetRiverClient attaches a River client to an engine built before one
// existed. River requires its worker registry at construction, but the
// workers (this package's Worker) hold a pointer to the same Engine an
// enclosing module wires before the client is built — so the client is
// patched in once it's ready rather than rebuilding the Engine.
func (e *Engine) SetRiverClient(riverClient *river.Client[pgx.Tx]) {
	e.river = riverClient
}

// Trigger enqueues one delivery job per active webhook subscribed to
// event. It is meant to be wired as an action hook handler (e.g. on
// content:afterCreate).
func (e *Engine) Trigger(ctx context.Context, event string, data any) error {
	webhooks, err := e.matchingWebhooks(ctx, event)
	if err != nil {
		return err
	}
	if len(webhooks) == 0 {
		return nil
	}

	payload := domain.WebhookPayload{Event: event, Data: data}
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal webhook payload", 500)
	}

	for _, wh := range webhooks {
		args := DeliveryArgs{WebhookID: wh.ID, Event: event, Payload: body, Attempt: 1}
		if e.river == nil {
			continue
		}
		if _, err := e.river.Insert(ctx, args, nil); err != nil {
			e.logger.Error("enqueue webhook delivery failed",
				zap.String("webhookId", wh.ID), zap.String("event", event), zap.Error(err))
		}
	}
	return nil
}

func (e *Engine) matchingWebhooks(ctx context.Context, event string) ([]domain.Webhook, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT id, name, url, events, headers, secret, is_active, created_at
		FROM webhooks
		WHERE is_active = true
	`)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query webhooks")
	}
	defer rows.Close()

	var out []domain.Webhook
	for rows.Next() {
		var wh domain.Webhook
		var eventsRaw, headersRaw []byte
		if err := rows.Scan(&wh.ID, &wh.Name, &wh.URL, &eventsRaw, &headersRaw, &wh.Secret, &wh.IsActive, &wh.CreatedAt); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "scan webhook")
		}
		if err := json.Unmarshal(eventsRaw, &wh.Events); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "unmarshal webhook events")
		}
		if len(headersRaw) > 0 {
			if err := json.Unmarshal(headersRaw, &wh.Headers); err != nil {
				return nil, apperrors.ErrStorageFailuref(err, "unmarshal webhook headers")
			}
		}
		if wh.Subscribes(event) {
			out = append(out, wh)
		}
	}
	return out, nil
}
