package webhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

const uniqueViolationCode = "23505"

// Store persists Webhook registrations and their delivery history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore builds a Store over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create registers a new webhook.
func (st *Store) Create(ctx context.Context, wh *domain.Webhook) (*domain.Webhook, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "generate webhook id", 500)
	}
	wh.ID = id.String()
	wh.IsActive = true

	eventsRaw, err := json.Marshal(wh.Events)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal webhook events", 500)
	}
	headersRaw, err := json.Marshal(wh.Headers)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal webhook headers", 500)
	}

	_, err = st.pool.Exec(ctx, `
		INSERT INTO webhooks (id, name, url, events, headers, secret, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now())
	`, wh.ID, wh.Name, wh.URL, eventsRaw, headersRaw, wh.Secret)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.New(apperrors.CodeValidationFailed, "webhook already registered", 409)
		}
		return nil, apperrors.ErrStorageFailuref(err, "insert webhook")
	}
	return wh, nil
}

// Get loads a webhook by id.
func (st *Store) Get(ctx context.Context, id string) (*domain.Webhook, error) {
	row := st.pool.QueryRow(ctx, `
		SELECT id, name, url, events, headers, secret, is_active, created_at
		FROM webhooks WHERE id = $1
	`, id)

	var wh domain.Webhook
	var eventsRaw, headersRaw []byte
	if err := row.Scan(&wh.ID, &wh.Name, &wh.URL, &eventsRaw, &headersRaw, &wh.Secret, &wh.IsActive, &wh.CreatedAt); err != nil {
		return nil, apperrors.ErrWebhookNotFoundf(id)
	}
	if err := json.Unmarshal(eventsRaw, &wh.Events); err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "unmarshal webhook events")
	}
	if len(headersRaw) > 0 {
		if err := json.Unmarshal(headersRaw, &wh.Headers); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "unmarshal webhook headers")
		}
	}
	return &wh, nil
}

// List returns every registered webhook, ordered by creation time.
func (st *Store) List(ctx context.Context) ([]*domain.Webhook, error) {
	rows, err := st.pool.Query(ctx, `
		SELECT id, name, url, events, headers, secret, is_active, created_at
		FROM webhooks ORDER BY created_at
	`)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query webhooks")
	}
	defer rows.Close()

	var out []*domain.Webhook
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
		out = append(out, &wh)
	}
	return out, nil
}

// SetActive flips a webhook's active flag, e.g. after a terminal delivery
// failure or an explicit pause/resume request.
func (st *Store) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := st.pool.Exec(ctx, `UPDATE webhooks SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "update webhook")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWebhookNotFoundf(id)
	}
	return nil
}

// Delete removes a webhook registration. Its delivery history cascades.
func (st *Store) Delete(ctx context.Context, id string) error {
	tag, err := st.pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "delete webhook")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWebhookNotFoundf(id)
	}
	return nil
}

// Deliveries returns the most recent delivery attempts for a webhook,
// newest first.
func (st *Store) Deliveries(ctx context.Context, webhookID string, limit int) ([]*domain.WebhookDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := st.pool.Query(ctx, `
		SELECT id, webhook_id, event, attempt, status_code, success, response, duration_ms, error, created_at, completed_at
		FROM webhook_deliveries
		WHERE webhook_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, webhookID, limit)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query webhook deliveries")
	}
	defer rows.Close()

	var out []*domain.WebhookDelivery
	for rows.Next() {
		var d domain.WebhookDelivery
		if err := rows.Scan(&d.ID, &d.WebhookID, &d.Event, &d.Attempt, &d.StatusCode, &d.Success, &d.Response, &d.DurationMs, &d.Error, &d.CreatedAt, &d.CompletedAt); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "scan webhook delivery")
		}
		out = append(out, &d)
	}
	return out, nil
}
