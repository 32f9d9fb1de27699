package database

import (
	"database/sql"
	"errors"
	"fmt"

	"fv-go/internal/auth"
	"fv-go/internal/model"
)

// User operations backing the auth.UserStore interface.

// CreateUser inserts a new user and fills in the auto-increment ID.
// Returns auth.ErrEmailTaken when the email is already registered.
func (s *SQLiteDatabase) CreateUser(user *model.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new user id: %w", err)
	}
	user.ID = id
	return nil
}

// FindUserByEmail returns the user with the given email, or nil if none exists.
func (s *SQLiteDatabase) FindUserByEmail(email string) (*model.User, error) {
	user, err := s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email,
	))
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

// FindUserByID returns the user with the given ID, or nil if none exists.
func (s *SQLiteDatabase) FindUserByID(id int64) (*model.User, error) {
	user, err := s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

// scanUser scans a single user row, mapping sql.ErrNoRows to (nil, nil).
func (s *SQLiteDatabase) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
