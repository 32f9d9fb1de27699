package fv

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fv-go/internal/model"
)

// maxUploadRetries bounds how often an upload re-reads the next version
// after losing an append race. Exhaustion surfaces as a server error.
const maxUploadRetries = 5

// Service coordinates the ledger and blob store to implement versioned
// upload and retrieval. It is safe for concurrent use.
type Service struct {
	ledger Ledger
	blobs  BlobStore
	logger Logger
	clock  Clock
	idgen  IDGenerator

	// pathLocks serializes version assignment per (owner, url path).
	// Uploads to different pairs proceed in parallel; the ledger's
	// uniqueness constraint remains the backstop either way.
	pathLocks sync.Map // string -> *sync.Mutex
}

// NewService creates a Service with the provided dependencies.
func NewService(ledger Ledger, blobs BlobStore, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		ledger: ledger,
		blobs:  blobs,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// Upload stores content as a new immutable version of urlPath for the
// given owner and returns the committed record. The first upload to a
// path gets version 0; each subsequent upload gets the next integer.
//
// The blob is written before the ledger record, so a ledger row never
// references bytes that were not durably stored. If the append fails
// the blob is orphaned, which is harmless; the caller sees the error
// and no version is considered committed.
func (s *Service) Upload(ownerID int64, urlPath, filename, mimeType string, content []byte) (*model.FileVersion, error) {
	urlPath = NormalizeURLPath(urlPath)
	if urlPath == "" {
		return nil, &ValidationError{Field: "url_path", Reason: "must not be empty"}
	}
	if len(content) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "must not be empty"}
	}
	filename = SanitizeFilename(filename)

	unlock := s.lockPath(ownerID, urlPath)
	defer unlock()

	for attempt := 0; attempt < maxUploadRetries; attempt++ {
		version, err := s.ledger.NextVersion(ownerID, urlPath)
		if err != nil {
			return nil, fmt.Errorf("computing next version: %w", err)
		}

		// Fresh key per attempt: blob locations are never shared
		// between records, and a failed append must not leave a
		// half-written blob reachable from a later record.
		key := s.newBlobKey(ownerID, version)
		if err := s.blobs.Put(key, bytes.NewReader(content), int64(len(content))); err != nil {
			return nil, &StorageError{Op: "put", Key: key, Err: err}
		}

		rec := &model.FileVersion{
			ID:        s.idgen.New(),
			OwnerID:   ownerID,
			URLPath:   urlPath,
			Version:   version,
			Filename:  filename,
			MimeType:  mimeType,
			Size:      int64(len(content)),
			BlobKey:   key,
			CreatedAt: s.clock.Now(),
		}

		err = s.ledger.AppendVersion(rec)
		if err == nil {
			s.logger.Info("file uploaded", "url_path", urlPath, "version", version, "size", rec.Size)
			return rec, nil
		}
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("version conflict, retrying", "url_path", urlPath, "version", version)
			continue
		}
		return nil, fmt.Errorf("recording version: %w", err)
	}

	return nil, fmt.Errorf("upload of %s: retries exhausted after %d conflicts", urlPath, maxUploadRetries)
}

// newBlobKey derives a blob location from the owner, the version, and a
// generated UUID. The UUID carries the uniqueness; owner and version
// only make the physical layout legible.
func (s *Service) newBlobKey(ownerID int64, version int64) string {
	return fmt.Sprintf("%d/%s_v%d", ownerID, s.idgen.New(), version)
}

// lockPath takes the per-(owner, url path) upload lock and returns the
// release func.
func (s *Service) lockPath(ownerID int64, urlPath string) func() {
	key := fmt.Sprintf("%d\x00%s", ownerID, urlPath)
	v, _ := s.pathLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// NormalizeURLPath trims whitespace and ensures a leading slash. An
// empty or all-whitespace path normalizes to "".
func NormalizeURLPath(urlPath string) string {
	urlPath = strings.TrimSpace(urlPath)
	if urlPath == "" || urlPath == "/" {
		return ""
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	return urlPath
}

// SanitizeFilename strips directory components and path separators so
// the stored filename is safe to echo back as display metadata.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	// Keep only the last path element, for both separator conventions.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(name, ".")
	if name == "" {
		name = "unnamed"
	}
	return name
}
