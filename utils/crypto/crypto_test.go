package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	if len(salt) != SaltLength {
		t.Fatalf("salt length = %d, want %d", len(salt), SaltLength)
	}

	key1 := DeriveKey("master-password", salt)
	key2 := DeriveKey("master-password", salt)
	if !bytes.Equal(key1, key2) {
		t.Error("same password and salt produced different keys")
	}
	if len(key1) != int(Argon2KeyLength) {
		t.Errorf("key length = %d, want %d", len(key1), Argon2KeyLength)
	}

	other := DeriveKey("other-password", salt)
	if bytes.Equal(key1, other) {
		t.Error("different passwords produced the same key")
	}
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey("master-password", salt)

	encrypted, nonce, err := EncryptValue("sk-test-1234567890", key)
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}

	decrypted, err := DecryptValue(encrypted, nonce, key)
	if err != nil {
		t.Fatalf("DecryptValue failed: %v", err)
	}
	if decrypted != "sk-test-1234567890" {
		t.Errorf("decrypted = %q", decrypted)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey("master-password", salt)
	wrongKey := DeriveKey("not-the-password", salt)

	encrypted, nonce, err := EncryptValue("secret-value", key)
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}

	if _, err := DecryptValue(encrypted, nonce, wrongKey); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	salt, _ := GenerateSalt()
	key := DeriveKey("master-password", salt)

	encrypted, nonce, err := EncryptValue("secret-value", key)
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	encrypted[0] ^= 0xff

	if _, err := DecryptValue(encrypted, nonce, key); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("error = %v, want ErrDecryptionFailed", err)
	}
}

func TestEncryptRejectsShortKey(t *testing.T) {
	if _, _, err := EncryptValue("value", []byte("short")); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("error = %v, want ErrInvalidKeyLength", err)
	}
}
