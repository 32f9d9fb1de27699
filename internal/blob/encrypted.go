package blob

import (
	"bytes"
	"fmt"
	"io"

	"fv-go/internal/fv"
)

// EncryptedStore wraps another BlobStore so blobs are encrypted at
// rest. The ledger records plaintext sizes; the inner store only ever
// sees ciphertext.
type EncryptedStore struct {
	inner fv.BlobStore
	enc   fv.Encryptor
}

// NewEncryptedStore wraps inner with the given encryptor.
func NewEncryptedStore(inner fv.BlobStore, enc fv.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc}
}

// Put encrypts the bytes read from r and stores the ciphertext under key.
func (s *EncryptedStore) Put(key string, r io.Reader, size int64) error {
	// Ciphertext length differs from the plaintext size, so encrypt
	// into a buffer first and hand the inner store the real length.
	var buf bytes.Buffer
	if err := s.enc.Encrypt(io.LimitReader(r, size), &buf); err != nil {
		return fmt.Errorf("encrypting blob: %w", err)
	}
	return s.inner.Put(key, &buf, int64(buf.Len()))
}

// Get retrieves the ciphertext under key and writes the plaintext to w.
func (s *EncryptedStore) Get(key string, w io.Writer) error {
	var buf bytes.Buffer
	if err := s.inner.Get(key, &buf); err != nil {
		return err
	}
	if err := s.enc.Decrypt(&buf, w); err != nil {
		return fmt.Errorf("decrypting blob: %w", err)
	}
	return nil
}

// ValidateSetup delegates to the inner store.
func (s *EncryptedStore) ValidateSetup() error {
	return s.inner.ValidateSetup()
}

// Compile-time check that EncryptedStore implements fv.BlobStore
var _ fv.BlobStore = (*EncryptedStore)(nil)
