// Package secret implements the storage-level transform for encrypted
// settings. The persisted value column holds ciphertext; callers only
// ever see the decrypted raw value.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrKeyEmpty is returned when constructing an encryptor without key material.
	ErrKeyEmpty = errors.New("encryption key cannot be empty")

	// ErrDecryptionFailed is returned when ciphertext cannot be decrypted,
	// e.g. after a key rotation. Read paths degrade to "no value" on it
	// instead of failing.
	ErrDecryptionFailed = errors.New("could not decrypt value")
)

// argon2id parameters for deriving the data key from the passphrase.
const (
	keyTime    = 1
	keyMemory  = 64 * 1024
	keyThreads = 4
	keyLen     = 32
)

// Encryptor seals and opens setting values with AES-GCM. The data key is
// derived from the configured passphrase and salt via argon2id.
type Encryptor struct {
	aead cipher.AEAD
}

// New derives the data key and prepares the AEAD.
func New(key, salt string) (*Encryptor, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	derived := argon2.IDKey([]byte(key), []byte(salt), keyTime, keyMemory, keyThreads, keyLen)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Encryptor{aead: aead}, nil
}

// Encrypt seals a raw value and returns base64(nonce || ciphertext).
func (e *Encryptor) Encrypt(plain string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err //nolint:wrapcheck
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plain), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Any malformed or foreign
// ciphertext yields ErrDecryptionFailed.
func (e *Encryptor) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrDecryptionFailed
	}

	plain, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plain), nil
}
