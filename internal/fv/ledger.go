package fv

import "fv-go/internal/model"

// Ledger is the authoritative metadata store for file versions.
// All queries are scoped to a single owner: no method can observe
// another owner's records, whatever the url path.
type Ledger interface {
	// NextVersion returns the version number the next upload to
	// (ownerID, urlPath) should receive: 0 if no record exists yet,
	// otherwise 1 + the current maximum. Computed from the stored
	// records at call time, never from a cache.
	NextVersion(ownerID int64, urlPath string) (int64, error)

	// AppendVersion persists a new version record. Returns ErrConflict
	// if a record with the same (owner, url path, version) already
	// exists; the caller re-reads NextVersion and retries.
	AppendVersion(rec *model.FileVersion) error

	// FindLatestVersion returns the record with the highest version for
	// (ownerID, urlPath), or nil if the pair has no records.
	FindLatestVersion(ownerID int64, urlPath string) (*model.FileVersion, error)

	// FindVersion returns the exact version record, or nil if it does
	// not exist.
	FindVersion(ownerID int64, urlPath string, version int64) (*model.FileVersion, error)
}
