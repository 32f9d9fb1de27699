package fv

import "io"

// BlobStore persists raw file bytes under opaque keys. Keys are
// generated by the service layer and recorded in the ledger; the store
// has no knowledge of owners, paths, or versions.
// All operations use io.Reader/io.Writer for streaming so large files
// need not be held in memory by the store itself.
type BlobStore interface {
	// Put stores the bytes read from r under key. Each upload gets a
	// fresh key, so Put never overwrites existing data.
	// size is the number of bytes that will be read from r.
	Put(key string, r io.Reader, size int64) error

	// Get retrieves the bytes stored under key and writes them to w.
	Get(key string, w io.Writer) error

	// ValidateSetup verifies that the store is accessible and properly
	// configured. Called once at process start.
	ValidateSetup() error
}
