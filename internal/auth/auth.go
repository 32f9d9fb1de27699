// Package auth is the identity boundary: it registers users, exchanges
// credentials for bearer tokens, and turns inbound tokens back into a
// stable owner identity. The storage core trusts the owner ID it yields
// completely — it is the sole tenant-isolation mechanism.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fv-go/internal/fv"
	"fv-go/internal/model"
)

var (
	// ErrEmailTaken is returned by Register when the email is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers can't probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for missing, malformed, expired, or
	// tampered bearer tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user and fills in the generated ID.
	// Returns ErrEmailTaken when the email is already registered.
	CreateUser(user *model.User) error

	// FindUserByEmail returns the user with the given email, or nil if
	// none exists.
	FindUserByEmail(email string) (*model.User, error)

	// FindUserByID returns the user with the given ID, or nil if none exists.
	FindUserByID(id int64) (*model.User, error)
}

// Service implements registration, login, and token verification.
type Service struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
	clock    fv.Clock
}

// NewService creates an auth Service. secret signs JWTs with HS256;
// tokenTTL bounds how long an issued token stays valid.
func NewService(store UserStore, secret []byte, tokenTTL time.Duration, clock fv.Clock) *Service {
	return &Service{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		clock:    clock,
	}
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and returns a signed bearer token.
func (s *Service) Authenticate(email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// VerifyToken validates a bearer token and returns the owner ID it was
// issued for.
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	ownerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return ownerID, nil
}
