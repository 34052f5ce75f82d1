// Package service contains the business logic layer: account and watchlist
// rules live here, between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rmansoor/watchdex/internal/apperror"
	"github.com/rmansoor/watchdex/internal/auth"
	"github.com/rmansoor/watchdex/internal/model"
	"github.com/rmansoor/watchdex/internal/repository"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
)

// AccountService handles registration and login.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAccountService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates the input, hashes the password, and creates the user.
// Returns a conflict error if the username or email is already taken.
// The plaintext password is never stored or logged.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email is not valid")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is too long")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate verifies an email/password pair. Every failure, whether an
// unknown email, a wrong password, or a malformed stored hash, collapses
// into the same uniform auth error so callers learn nothing about which
// check failed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.AuthFailed()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to look up user for login", slog.String("error", err.Error()))
		}
		return nil, apperror.AuthFailed()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.AuthFailed()
	}

	s.logger.Info("user authenticated", slog.Int64("userID", user.ID))

	return user, nil
}

// GetByID returns the user for the given id. Used by the /api/me endpoint
// after the session gate has resolved the token.
func (s *AccountService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "user id is required")
	}
	return s.users.GetByID(ctx, id)
}
