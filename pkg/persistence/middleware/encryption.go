package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/ports"
)

// KeySize is the length of an AES-256 key.
const KeySize = 32

// ErrSealed is returned when a sealed key sheet cannot be opened with any configured key,
// or when a plain key sheet is found where a sealed one is expected.
var ErrSealed = errors.New("key sheet cannot be unsealed")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.KeySheetStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals key sheet settings with AES-GCM.
// The name and creation time stay readable so stores can index and expire them.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != KeySize {
		return nil, domain.Invalid("active key must be %d bytes (AES-256), got %d", KeySize, len(config.ActiveKey))
	}
	for i, k := range config.FallbackKeys {
		if len(k) != KeySize {
			return nil, domain.Invalid("fallback key %d must be %d bytes (AES-256), got %d", i, KeySize, len(k))
		}
	}
	return func(next ports.KeySheetStore) ports.KeySheetStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, sheet *domain.KeySheet) error {
	// 1. Serialize real settings
	plainText, err := json.Marshal(sheet.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 2. Encrypt, binding the ciphertext to the sheet's name
	ciphertext, err := encrypt(plainText, m.config.ActiveKey, []byte(sheet.Name))
	if err != nil {
		return fmt.Errorf("failed to encrypt settings: %w", err)
	}

	// 3. Create envelope
	envelope := &domain.KeySheet{
		Name:      sheet.Name,
		CreatedAt: sheet.CreatedAt,
		Sealed:    ciphertext,
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (*domain.KeySheet, error) {
	// 1. Load envelope
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	// 2. A plain sheet in a sealed store is refused rather than trusted.
	if len(envelope.Sealed) == 0 {
		return nil, fmt.Errorf("%w: %s is not sealed", ErrSealed, name)
	}

	// 3. Decrypt (Try Active, then Fallback)
	plainText, err := decryptWithRotation(envelope.Sealed, []byte(envelope.Name), m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSealed, name, err)
	}

	// 4. Deserialize
	out := &domain.KeySheet{Name: envelope.Name, CreatedAt: envelope.CreatedAt}
	if err := json.Unmarshal(plainText, &out.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unsealed settings: %w", err)
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext, key, additional []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, additional), nil
}

func decryptWithRotation(ciphertext, additional, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, additional, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, additional, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, additional, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, additional)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
