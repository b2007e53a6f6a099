package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

const maxStoredResponseBytes = 4096

// Deliver performs one HTTP attempt for a webhook delivery (spec §4.7
// steps 1-6): persist a pending row, sign and POST the payload, record
// the outcome, then decide whether to schedule a new row for the next
// attempt. It never mutates a prior attempt's row.
func (e *Engine) Deliver(ctx context.Context, wh domain.Webhook, event string, payload []byte, attempt int) error {
	deliveryID, err := uuid.NewV7()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageFailure, "generate delivery id", 500)
	}

	if _, err := e.pool.Exec(ctx, `
		INSERT INTO webhook_deliveries (id, webhook_id, event, attempt, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, deliveryID.String(), wh.ID, event, attempt); err != nil {
		return apperrors.ErrStorageFailuref(err, "insert pending webhook delivery")
	}

	outcome := e.attemptHTTP(ctx, wh, payload)

	if _, err := e.pool.Exec(ctx, `
		UPDATE webhook_deliveries
		SET status_code = $2, success = $3, response = $4, duration_ms = $5, error = $6, completed_at = now()
		WHERE id = $1
	`, deliveryID.String(), outcome.statusCode, outcome.success, outcome.response, outcome.durationMs, outcome.errMessage); err != nil {
		return apperrors.ErrStorageFailuref(err, "update webhook delivery")
	}

	if outcome.success {
		return nil
	}

	maxAttempts := e.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if !outcome.retry || attempt >= maxAttempts {
		e.logger.Warn("webhook delivery terminal",
			zap.String("webhookId", wh.ID), zap.String("event", event), zap.Int("attempt", attempt))
		return nil
	}

	delay := backoffDelay(attempt+1, e.cfg.InitialDelayMs, e.cfg.BackoffMultiplier)
	return e.scheduleNextAttempt(ctx, wh.ID, event, payload, attempt+1, delay)
}

// scheduleNextAttempt enqueues the next attempt's delivery job. Each
// retry is a fresh River job carrying the next attempt number, scheduled
// after the backoff delay — not a requeue of the failed job, so River's
// own attempt/retry bookkeeping never interferes with this chain.
func (e *Engine) scheduleNextAttempt(ctx context.Context, webhookID, event string, payload []byte, attempt int, delay time.Duration) error {
	if e.river == nil {
		return nil
	}
	args := DeliveryArgs{WebhookID: webhookID, Event: event, Payload: payload, Attempt: attempt}
	if _, err := e.river.Insert(ctx, args, &river.InsertOpts{ScheduledAt: time.Now().Add(delay)}); err != nil {
		return apperrors.ErrStorageFailuref(err, "schedule next webhook delivery attempt")
	}
	return nil
}

type httpOutcome struct {
	statusCode int
	success    bool
	response   string
	durationMs int64
	errMessage string
	retry      bool
}

func (e *Engine) attemptHTTP(ctx context.Context, wh domain.Webhook, payload []byte) httpOutcome {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(payload))
	if err != nil {
		return httpOutcome{errMessage: err.Error(), retry: shouldRetryError(err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range wh.Headers {
		req.Header.Set(k, v)
	}
	if wh.Secret != "" {
		req.Header.Set("X-CorePress-Signature", SignaturePayload(wh.Secret, payload))
	}

	resp, err := e.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return httpOutcome{durationMs: duration, errMessage: err.Error(), retry: shouldRetryError(err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxStoredResponseBytes))
	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	return httpOutcome{
		statusCode: resp.StatusCode,
		success:    success,
		response:   string(body),
		durationMs: duration,
		retry:      !success && shouldRetryStatus(resp.StatusCode),
	}
}
