package blob

import (
	"bytes"
	"strings"
	"testing"

	"fv-go/internal/encryption"
)

func TestEncryptedStore(t *testing.T) {
	t.Run("round trips plaintext", func(t *testing.T) {
		inner := NewMemoryStore()
		store := NewEncryptedStore(inner, encryption.NewTestEncryptor())

		content := []byte("secret payload")
		if err := store.Put("1/s_v0", bytes.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := store.Get("1/s_v0", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("Get() = %q, want %q", buf.Bytes(), content)
		}
	})

	t.Run("inner store never sees plaintext", func(t *testing.T) {
		inner := NewMemoryStore()
		store := NewEncryptedStore(inner, encryption.NewTestEncryptor())

		content := []byte("do not leak this")
		if err := store.Put("1/s_v0", bytes.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var raw bytes.Buffer
		if err := inner.Get("1/s_v0", &raw); err != nil {
			t.Fatalf("inner Get() error = %v", err)
		}
		if bytes.Contains(raw.Bytes(), content) {
			t.Error("ciphertext contains the plaintext")
		}
	})

	t.Run("rejects undecryptable content", func(t *testing.T) {
		inner := NewMemoryStore()
		if err := inner.Put("1/raw_v0", strings.NewReader("plain bytes"), 11); err != nil {
			t.Fatalf("inner Put() error = %v", err)
		}

		store := NewEncryptedStore(inner, encryption.NewTestEncryptor())
		var buf bytes.Buffer
		if err := store.Get("1/raw_v0", &buf); err == nil {
			t.Error("Get() error = nil, want decrypt failure for unencrypted data")
		}
	})

	t.Run("missing key passes through unchanged", func(t *testing.T) {
		store := NewEncryptedStore(NewMemoryStore(), encryption.NewTestEncryptor())

		var buf bytes.Buffer
		err := store.Get("1/missing_v0", &buf)
		if err == nil || !strings.Contains(err.Error(), "blob not found") {
			t.Errorf("Get() error = %v, want blob not found", err)
		}
	})
}
