package webhook

import "strings"

// errorCategory classifies a delivery failure to decide whether to
// retry (spec §4.7's retry policy, reproduced precisely).
type errorCategory string

const (
	categoryCertificate      errorCategory = "certificate"
	categoryPermanentNetwork errorCategory = "permanent-network"
	categoryTimeout          errorCategory = "timeout"
	categoryTemporaryNetwork errorCategory = "temporary-network"
	categoryClientError      errorCategory = "client-error"
	categoryUnknown          errorCategory = "unknown"
)

// shouldRetryError classifies err's message and reports whether the
// delivery should be retried. Error classification happens before any
// HTTP status is consulted.
func shouldRetryError(err error) bool {
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "cert_", "certificate", "tls", "certerror"):
		return false
	case containsAny(msg, "no such host", "dns", "connection refused", "connection reset"):
		return false
	case containsAny(msg, "etimedout", "timeout", "timeouterror", "deadline exceeded"):
		return true
	case containsAny(msg, "socket hang up", "host unreachable", "network unreachable"):
		return true
	case containsAny(msg, "400", "401", "403", "404"):
		return false
	default:
		return true
	}
}

// shouldRetryStatus reports whether an HTTP response status warrants a
// retry: 5xx, 408, or 429.
func shouldRetryStatus(statusCode int) bool {
	if statusCode == 408 || statusCode == 429 {
		return true
	}
	return statusCode >= 500 && statusCode <= 599
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
