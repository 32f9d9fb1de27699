package database

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fv-go/internal/auth"
	"fv-go/internal/fv"
	"fv-go/internal/model"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// newTestOwner inserts a user and returns its ID.
func newTestOwner(t *testing.T, db *SQLiteDatabase, email string) int64 {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "x", CreatedAt: time.Now()}
	if err := db.CreateUser(user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user.ID
}

// newVersion builds a valid FileVersion for the given owner.
func newVersion(ownerID int64, urlPath string, version int64) *model.FileVersion {
	return &model.FileVersion{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		URLPath:   urlPath,
		Version:   version,
		Filename:  "f.txt",
		MimeType:  "text/plain",
		Size:      4,
		BlobKey:   uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

func TestSQLiteDatabase_NextVersion(t *testing.T) {
	t.Run("returns 0 for an empty pair", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		next, err := db.NextVersion(owner, "/new.txt")
		if err != nil {
			t.Fatalf("NextVersion() error = %v", err)
		}
		if next != 0 {
			t.Errorf("NextVersion() = %d, want 0", next)
		}
	})

	t.Run("returns max plus one after appends", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		for v := int64(0); v < 3; v++ {
			if err := db.AppendVersion(newVersion(owner, "/f.txt", v)); err != nil {
				t.Fatalf("AppendVersion(%d) error = %v", v, err)
			}
		}

		next, err := db.NextVersion(owner, "/f.txt")
		if err != nil {
			t.Fatalf("NextVersion() error = %v", err)
		}
		if next != 3 {
			t.Errorf("NextVersion() = %d, want 3", next)
		}
	})

	t.Run("is scoped per owner", func(t *testing.T) {
		db := newTestDB(t)
		alice := newTestOwner(t, db, "alice@example.com")
		bob := newTestOwner(t, db, "bob@example.com")

		if err := db.AppendVersion(newVersion(alice, "/f.txt", 0)); err != nil {
			t.Fatalf("AppendVersion() error = %v", err)
		}

		next, err := db.NextVersion(bob, "/f.txt")
		if err != nil {
			t.Fatalf("NextVersion() error = %v", err)
		}
		if next != 0 {
			t.Errorf("NextVersion(bob) = %d, want 0", next)
		}
	})
}

func TestSQLiteDatabase_AppendVersion(t *testing.T) {
	t.Run("rejects duplicate owner/path/version", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		if err := db.AppendVersion(newVersion(owner, "/f.txt", 0)); err != nil {
			t.Fatalf("AppendVersion() error = %v", err)
		}

		err := db.AppendVersion(newVersion(owner, "/f.txt", 0))
		if !errors.Is(err, fv.ErrConflict) {
			t.Errorf("AppendVersion() error = %v, want ErrConflict", err)
		}
	})

	t.Run("same path and version under different owners both land", func(t *testing.T) {
		db := newTestDB(t)
		alice := newTestOwner(t, db, "alice@example.com")
		bob := newTestOwner(t, db, "bob@example.com")

		if err := db.AppendVersion(newVersion(alice, "/f.txt", 0)); err != nil {
			t.Fatalf("AppendVersion(alice) error = %v", err)
		}
		if err := db.AppendVersion(newVersion(bob, "/f.txt", 0)); err != nil {
			t.Errorf("AppendVersion(bob) error = %v, want nil", err)
		}
	})
}

func TestSQLiteDatabase_FindVersions(t *testing.T) {
	t.Run("find latest returns nil for unknown pair", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		rec, err := db.FindLatestVersion(owner, "/missing.txt")
		if err != nil {
			t.Fatalf("FindLatestVersion() error = %v", err)
		}
		if rec != nil {
			t.Errorf("FindLatestVersion() = %+v, want nil", rec)
		}
	})

	t.Run("find latest returns the highest version", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		for v := int64(0); v < 4; v++ {
			if err := db.AppendVersion(newVersion(owner, "/f.txt", v)); err != nil {
				t.Fatalf("AppendVersion(%d) error = %v", v, err)
			}
		}

		rec, err := db.FindLatestVersion(owner, "/f.txt")
		if err != nil {
			t.Fatalf("FindLatestVersion() error = %v", err)
		}
		if rec == nil || rec.Version != 3 {
			t.Errorf("FindLatestVersion() = %+v, want version 3", rec)
		}
	})

	t.Run("find version matches exactly", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		want := newVersion(owner, "/f.txt", 1)
		if err := db.AppendVersion(newVersion(owner, "/f.txt", 0)); err != nil {
			t.Fatalf("AppendVersion(0) error = %v", err)
		}
		if err := db.AppendVersion(want); err != nil {
			t.Fatalf("AppendVersion(1) error = %v", err)
		}

		rec, err := db.FindVersion(owner, "/f.txt", 1)
		if err != nil {
			t.Fatalf("FindVersion() error = %v", err)
		}
		if rec == nil || rec.ID != want.ID {
			t.Errorf("FindVersion() = %+v, want ID %s", rec, want.ID)
		}
		if rec.BlobKey != want.BlobKey {
			t.Errorf("BlobKey = %q, want %q", rec.BlobKey, want.BlobKey)
		}
	})

	t.Run("find version is owner scoped", func(t *testing.T) {
		db := newTestDB(t)
		alice := newTestOwner(t, db, "alice@example.com")
		bob := newTestOwner(t, db, "bob@example.com")

		if err := db.AppendVersion(newVersion(alice, "/f.txt", 0)); err != nil {
			t.Fatalf("AppendVersion() error = %v", err)
		}

		rec, err := db.FindVersion(bob, "/f.txt", 0)
		if err != nil {
			t.Fatalf("FindVersion() error = %v", err)
		}
		if rec != nil {
			t.Errorf("FindVersion(bob) = %+v, want nil", rec)
		}
	})

	t.Run("list versions returns oldest first", func(t *testing.T) {
		db := newTestDB(t)
		owner := newTestOwner(t, db, "a@example.com")

		for v := int64(0); v < 3; v++ {
			if err := db.AppendVersion(newVersion(owner, "/f.txt", v)); err != nil {
				t.Fatalf("AppendVersion(%d) error = %v", v, err)
			}
		}

		recs, err := db.ListVersions(owner, "/f.txt")
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("len(ListVersions()) = %d, want 3", len(recs))
		}
		for i, rec := range recs {
			if rec.Version != int64(i) {
				t.Errorf("ListVersions()[%d].Version = %d, want %d", i, rec.Version, i)
			}
		}
	})
}

func TestSQLiteDatabase_Users(t *testing.T) {
	t.Run("create user fills generated id", func(t *testing.T) {
		db := newTestDB(t)

		user := &model.User{Email: "a@example.com", PasswordHash: "h", CreatedAt: time.Now()}
		if err := db.CreateUser(user); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if user.ID == 0 {
			t.Error("CreateUser() left ID zero")
		}
	})

	t.Run("duplicate email returns email taken", func(t *testing.T) {
		db := newTestDB(t)

		first := &model.User{Email: "a@example.com", PasswordHash: "h", CreatedAt: time.Now()}
		if err := db.CreateUser(first); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		dup := &model.User{Email: "a@example.com", PasswordHash: "h2", CreatedAt: time.Now()}
		if err := db.CreateUser(dup); !errors.Is(err, auth.ErrEmailTaken) {
			t.Errorf("CreateUser() error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("find by email returns nil for unknown", func(t *testing.T) {
		db := newTestDB(t)

		user, err := db.FindUserByEmail("nobody@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if user != nil {
			t.Errorf("FindUserByEmail() = %+v, want nil", user)
		}
	})

	t.Run("find by email and id round trip", func(t *testing.T) {
		db := newTestDB(t)

		created := &model.User{Email: "a@example.com", PasswordHash: "h", CreatedAt: time.Now()}
		if err := db.CreateUser(created); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		byEmail, err := db.FindUserByEmail("a@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail() error = %v", err)
		}
		if byEmail == nil || byEmail.ID != created.ID {
			t.Fatalf("FindUserByEmail() = %+v, want ID %d", byEmail, created.ID)
		}

		byID, err := db.FindUserByID(created.ID)
		if err != nil {
			t.Fatalf("FindUserByID() error = %v", err)
		}
		if byID == nil || byID.Email != "a@example.com" {
			t.Errorf("FindUserByID() = %+v, want email a@example.com", byID)
		}
	})
}
