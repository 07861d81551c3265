package config_test

import (
	"os"
	"testing"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

const testKey = "01234567890123456789012345678901"

func TestInitCrypto(t *testing.T) {
	t.Run("ShortKeyPanics", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", "short_key")
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("InitCrypto should panic with a short key")
			}
		}()
		config.InitCrypto()
	})

	t.Run("ValidKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", testKey)
		config.InitCrypto()
	})
}

func TestEncryptDecrypt(t *testing.T) {
	os.Setenv("CRYPTO_KEY", testKey)
	config.InitCrypto()

	t.Run("RefreshToken", func(t *testing.T) {
		plaintext := "1//0g-google-refresh-token"

		ciphertext, err := config.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		decrypted, err := config.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != plaintext {
			t.Errorf("decrypted text %q does not match %q", decrypted, plaintext)
		}

		ciphertext2, _ := config.Encrypt(plaintext)
		if ciphertext == ciphertext2 {
			t.Errorf("ciphertexts should differ because of the random nonce")
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		ciphertext, err := config.Encrypt("")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		decrypted, err := config.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != "" {
			t.Errorf("expected empty text, got %q", decrypted)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		if _, err := config.Decrypt("AAAA"); err != config.ErrCiphertextTooShort {
			t.Errorf("expected ErrCiphertextTooShort, got %v", err)
		}
	})
}
