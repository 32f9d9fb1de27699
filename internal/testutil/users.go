package testutil

import (
	"testing"
	"time"

	"fv-go/internal/database"
	"fv-go/internal/model"
)

// CreateTestUser inserts a user directly into the database and returns
// its ID. The password hash is a placeholder; use the auth service when
// the test exercises real credentials.
func CreateTestUser(t *testing.T, db *database.SQLiteDatabase, email string) int64 {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := db.CreateUser(user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user.ID
}
