package encryption

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()

	dir := t.TempDir()
	enc := NewAgeEncryptor(filepath.Join(dir, "fv.pub"), filepath.Join(dir, "fv.key"))
	if err := enc.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return enc
}

func TestAgeEncryptor(t *testing.T) {
	t.Run("setup then round trip", func(t *testing.T) {
		enc := newTestAgeEncryptor(t)

		if !enc.IsConfigured() {
			t.Fatal("IsConfigured() = false after Setup()")
		}

		plaintext := []byte("encrypt me with age")
		var ciphertext bytes.Buffer
		if err := enc.Encrypt(bytes.NewReader(plaintext), &ciphertext); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		if bytes.Contains(ciphertext.Bytes(), plaintext) {
			t.Error("ciphertext contains the plaintext")
		}

		var decrypted bytes.Buffer
		if err := enc.Decrypt(&ciphertext, &decrypted); err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if !bytes.Equal(decrypted.Bytes(), plaintext) {
			t.Errorf("Decrypt() = %q, want %q", decrypted.Bytes(), plaintext)
		}
	})

	t.Run("setup refuses to overwrite keys", func(t *testing.T) {
		enc := newTestAgeEncryptor(t)

		if err := enc.Setup(); err == nil {
			t.Error("second Setup() error = nil, want already-exists error")
		}
	})

	t.Run("wrong key cannot decrypt", func(t *testing.T) {
		enc := newTestAgeEncryptor(t)
		other := newTestAgeEncryptor(t)

		var ciphertext bytes.Buffer
		if err := enc.Encrypt(bytes.NewReader([]byte("private")), &ciphertext); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}

		var out bytes.Buffer
		if err := other.Decrypt(&ciphertext, &out); err == nil {
			t.Error("Decrypt() with the wrong identity succeeded")
		}
	})

	t.Run("unconfigured encryptor reports missing keys", func(t *testing.T) {
		dir := t.TempDir()
		enc := NewAgeEncryptor(filepath.Join(dir, "fv.pub"), filepath.Join(dir, "fv.key"))

		if enc.IsConfigured() {
			t.Error("IsConfigured() = true without key files")
		}

		var out bytes.Buffer
		if err := enc.Encrypt(bytes.NewReader([]byte("x")), &out); err == nil {
			t.Error("Encrypt() error = nil without keys")
		}
	})
}
