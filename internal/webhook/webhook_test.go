package webhook

import (
	"errors"
	"testing"
	"time"
)

func TestShouldRetryError_Classification(t *testing.T) {
	cases := []struct {
		msg   string
		retry bool
	}{
		{"x509: certificate has expired", false},
		{"dial tcp: lookup example.com: no such host", false},
		{"connection refused", false},
		{"ETIMEDOUT", true},
		{"context deadline exceeded", true},
		{"socket hang up", true},
		{"request failed with 404", false},
		{"something totally unexpected", true},
	}
	for _, c := range cases {
		got := shouldRetryError(errors.New(c.msg))
		if got != c.retry {
			t.Errorf("shouldRetryError(%q) = %v, want %v", c.msg, got, c.retry)
		}
	}
}

func TestShouldRetryStatus(t *testing.T) {
	cases := []struct {
		status int
		retry  bool
	}{
		{500, true}, {503, true}, {408, true}, {429, true},
		{200, false}, {400, false}, {404, false}, {301, false},
	}
	for _, c := range cases {
		if got := shouldRetryStatus(c.status); got != c.retry {
			t.Errorf("shouldRetryStatus(%d) = %v, want %v", c.status, got, c.retry)
		}
	}
}

func TestBackoffDelay_ExponentialGrowth(t *testing.T) {
	if got := backoffDelay(1, 1000, 2); got != 1*time.Second {
		t.Errorf("attempt 1: got %v, want 1s", got)
	}
	if got := backoffDelay(2, 1000, 2); got != 2*time.Second {
		t.Errorf("attempt 2: got %v, want 2s", got)
	}
	if got := backoffDelay(3, 1000, 2); got != 4*time.Second {
		t.Errorf("attempt 3: got %v, want 4s", got)
	}
}

func TestBackoffDelay_CapsAtCeiling(t *testing.T) {
	got := backoffDelay(20, 1000, 2)
	if got != maxBackoffDelay {
		t.Errorf("expected delay capped at %v, got %v", maxBackoffDelay, got)
	}
}

func TestSignaturePayload_VerifiesRoundTrip(t *testing.T) {
	secret := "shh"
	payload := []byte(`{"event":"content:afterCreate"}`)
	sig := SignaturePayload(secret, payload)

	if !VerifySignature(secret, payload, sig) {
		t.Error("expected signature to verify")
	}
	if VerifySignature("wrong-secret", payload, sig) {
		t.Error("expected signature verification to fail with wrong secret")
	}
}
