package fv

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. The HTTP boundary maps
// these to status codes; callers should test with errors.Is.
var (
	// ErrNotFound means no version exists at all for (owner, url path).
	ErrNotFound = errors.New("file not found")

	// ErrRevisionNotFound means the path exists but the requested
	// revision does not. Distinct from ErrNotFound on purpose.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrConflict is returned by Ledger.AppendVersion when a record with
	// the same (owner, url path, version) already exists. The upload
	// path retries on it with a fresh version read.
	ErrConflict = errors.New("version already exists")
)

// ValidationError reports missing or malformed upload input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a blob store I/O failure. It is never retried by
// the service layer.
type StorageError struct {
	Op  string // "put" or "get"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blob %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
