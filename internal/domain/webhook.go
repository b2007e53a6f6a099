package domain

import "time"

// Webhook is a registered subscription to a closed set of emitted events.
type Webhook struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Events    []string          `json:"events"`
	Headers   map[string]string `json:"headers,omitempty"`
	Secret    string            `json:"-"`
	IsActive  bool              `json:"isActive"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Subscribes reports whether the webhook is active and listens for event.
func (w *Webhook) Subscribes(event string) bool {
	if !w.IsActive {
		return false
	}
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

// WebhookDelivery is one append-only row recording a single HTTP attempt.
type WebhookDelivery struct {
	ID          string     `json:"id"`
	WebhookID   string     `json:"webhookId"`
	Event       string     `json:"event"`
	Attempt     int        `json:"attempt"`
	StatusCode  int        `json:"statusCode"`
	Success     bool       `json:"success"`
	Response    string     `json:"response,omitempty"`
	DurationMs  int64      `json:"durationMs"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// WebhookPayload is the JSON body POSTed to subscriber endpoints (§6).
type WebhookPayload struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
