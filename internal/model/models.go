package model

import "time"

// User is an authenticated principal. All stored files are namespaced
// under the owning user's ID.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}

// FileVersion is one immutable revision of a file at a logical URL path.
// Versions for a given (owner, url_path) pair form a gapless sequence
// starting at 0. Records are append-only: never updated, never deleted.
type FileVersion struct {
	ID        string // UUID
	OwnerID   int64  // Foreign key to User
	URLPath   string // Caller-chosen logical path, e.g. "/notes.txt"
	Version   int64  // 0, 1, 2, ... per (owner, url_path)
	Filename  string // Original filename as supplied at upload time
	MimeType  string // Caller-supplied content type, opaque
	Size      int64  // Plaintext size in bytes
	BlobKey   string // Opaque handle resolvable by the blob store
	CreatedAt time.Time
}
