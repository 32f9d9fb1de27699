package testutil

import (
	"fv-go/internal/blob"
)

// NewTestBlobStore returns an in-memory blob store for tests.
func NewTestBlobStore() *blob.MemoryStore {
	return blob.NewMemoryStore()
}
