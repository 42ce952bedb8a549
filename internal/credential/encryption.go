package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Encryption seals the stored API key with AES-256-GCM.
//
// Ciphertexts are base64(nonce || ciphertext || tag). A fresh random nonce
// is drawn for every Encrypt call, so encrypting the same key twice yields
// different output.
type Encryption struct {
	key     []byte
	enabled bool
}

// NewEncryption returns an Encryption for a 32-byte key. An empty key
// disables encryption and values pass through unchanged.
func NewEncryption(key []byte) (*Encryption, error) {
	if len(key) == 0 {
		return &Encryption{}, nil
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be exactly 32 bytes (256 bits), got %d bytes", len(key))
	}
	return &Encryption{key: key, enabled: true}, nil
}

// Enabled reports whether values are actually encrypted.
func (e *Encryption) Enabled() bool {
	return e != nil && e.enabled
}

// Encrypt seals plaintext. With encryption disabled it returns plaintext.
func (e *Encryption) Encrypt(plaintext string) (string, error) {
	if !e.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (e *Encryption) Decrypt(encoded string) (string, error) {
	if !e.Enabled() || encoded == "" {
		return encoded, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func (e *Encryption) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// GenerateKey returns a random 32-byte key. Persist it; a new key makes the
// stored credential unreadable.
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	return key, nil
}

// KeyFromBase64 decodes a base64 key, as read from the environment. An empty
// string yields a nil key (encryption disabled).
func KeyFromBase64(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d bytes", len(key))
	}
	return key, nil
}

// KeyToBase64 encodes key for storage in an environment variable.
func KeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
