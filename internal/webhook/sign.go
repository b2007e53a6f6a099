package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignaturePayload returns the value of the X-CorePress-Signature header
// for payload signed with secret: "sha256=<hex hmac>".
func SignaturePayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the HMAC computed
// over payload with secret, in constant time.
func VerifySignature(secret string, payload []byte, signature string) bool {
	expected := SignaturePayload(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
