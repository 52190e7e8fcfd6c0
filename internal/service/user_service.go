package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"spendlog/internal/auth"
	"spendlog/internal/models"
	"spendlog/internal/storage"
)

// UserService handles registration and credential verification.
type UserService struct {
	db *storage.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *storage.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new account. It fails with ErrDuplicateUsername if
// the name is taken, leaving the existing account untouched. The
// plaintext password is hashed before it reaches storage.
func (s *UserService) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Reason: "Username is required."}
	}
	if password == "" {
		return nil, &ValidationError{Reason: "Password is required."}
	}

	if _, err := s.db.GetUserByUsername(username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("look up username: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.db.CreateUser(username, hash)
	if err != nil {
		// The unique constraint also catches a concurrent registration.
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords both return ErrInvalidCredentials so usernames cannot
// be enumerated.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.db.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up username: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
