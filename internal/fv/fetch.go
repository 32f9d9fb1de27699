package fv

import (
	"bytes"
	"fmt"
)

// FetchResult bundles the bytes and metadata of one resolved version.
// Current and Newest may differ, signaling that a newer revision of the
// path exists.
type FetchResult struct {
	Data     []byte
	Filename string
	MimeType string
	Current  int64
	Newest   int64
}

// Fetch resolves a version of urlPath for the given owner and loads its
// bytes. With revision == nil the newest version is returned; otherwise
// the exact requested version.
//
// Returns ErrNotFound when the path has no versions at all for this
// owner — checked before the revision lookup, so asking for an old
// revision of a never-uploaded path still reads as a plain not-found.
// Returns ErrRevisionNotFound when the path exists but the requested
// revision does not.
func (s *Service) Fetch(ownerID int64, urlPath string, revision *int64) (*FetchResult, error) {
	urlPath = NormalizeURLPath(urlPath)
	if urlPath == "" {
		return nil, &ValidationError{Field: "url_path", Reason: "must not be empty"}
	}

	newest, err := s.ledger.FindLatestVersion(ownerID, urlPath)
	if err != nil {
		return nil, fmt.Errorf("finding latest version: %w", err)
	}
	if newest == nil {
		return nil, ErrNotFound
	}

	target := newest
	if revision != nil {
		target, err = s.ledger.FindVersion(ownerID, urlPath, *revision)
		if err != nil {
			return nil, fmt.Errorf("finding version %d: %w", *revision, err)
		}
		if target == nil {
			return nil, ErrRevisionNotFound
		}
	}

	var buf bytes.Buffer
	if err := s.blobs.Get(target.BlobKey, &buf); err != nil {
		return nil, &StorageError{Op: "get", Key: target.BlobKey, Err: err}
	}

	s.logger.Debug("file fetched", "url_path", urlPath, "version", target.Version, "newest", newest.Version)

	return &FetchResult{
		Data:     buf.Bytes(),
		Filename: target.Filename,
		MimeType: target.MimeType,
		Current:  target.Version,
		Newest:   newest.Version,
	}, nil
}
