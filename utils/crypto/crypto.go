// Package crypto holds the primitives for encrypted app settings: argon2id
// key derivation with a per-row salt and AES-256-GCM for the value itself.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key derivation
	Argon2Time      uint32 = 1
	Argon2Memory    uint32 = 64 * 1024 // 64 MB
	Argon2Threads   uint8  = 4
	Argon2KeyLength uint32 = 32 // 256 bits for AES-256

	SaltLength = 32
)

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// GenerateSalt produces a random per-value salt
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches the master key into an AES-256 key using argon2id
func DeriveKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Threads,
		Argon2KeyLength,
	)
}

func gcmFor(encryptionKey []byte) (cipher.AEAD, error) {
	if len(encryptionKey) != 32 {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptValue encrypts a setting value with AES-256-GCM, returning the
// ciphertext and the nonce used
func EncryptValue(value string, encryptionKey []byte) (encrypted []byte, nonce []byte, err error) {
	gcm, err := gcmFor(encryptionKey)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	encrypted = gcm.Seal(nil, nonce, []byte(value), nil)
	return encrypted, nonce, nil
}

// DecryptValue reverses EncryptValue. A wrong key or tampered ciphertext
// yields ErrDecryptionFailed.
func DecryptValue(encrypted []byte, nonce []byte, encryptionKey []byte) (string, error) {
	gcm, err := gcmFor(encryptionKey)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
