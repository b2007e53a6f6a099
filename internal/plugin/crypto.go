package plugin

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"

	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

const nonceSize = 24

// Crypto encrypts and decrypts plugin config secrets at rest using
// nacl/secretbox, keyed by the process-wide encryption key
// (config.SecurityConfig.EncryptionKey, hex-encoded 32 bytes).
type Crypto struct {
	key [32]byte
}

// NewCrypto decodes a hex-encoded 32-byte key. It rejects anything else
// since secretbox requires an exact 32-byte key.
func NewCrypto(hexKey string) (*Crypto, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, apperrors.ErrPluginManifestInvalidf("", fmt.Sprintf("encryption key is not valid hex: %v", err))
	}
	if len(raw) != 32 {
		return nil, apperrors.ErrPluginManifestInvalidf("", fmt.Sprintf("encryption key must decode to 32 bytes, got %d", len(raw)))
	}
	c := &Crypto{}
	copy(c.key[:], raw)
	return c, nil
}

// EncryptSecret serializes value as JSON and seals it. The output is
// hex-encoded nonce||box, safe to persist as a single string column.
func (c *Crypto) EncryptSecret(value any) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal secret: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &c.key)
	return hex.EncodeToString(sealed), nil
}

// DecryptSecret reverses EncryptSecret and unmarshals the result into out.
func (c *Crypto) DecryptSecret(encoded string, out any) error {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode secret: %w", err)
	}
	if len(raw) < nonceSize {
		return fmt.Errorf("secret payload too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return fmt.Errorf("secret authentication failed")
	}

	return json.Unmarshal(plaintext, out)
}
