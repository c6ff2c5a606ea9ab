// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce
// ownership, and orchestrate; repositories and the object store do the IO.
// Services depend only on the repository interfaces, so tests substitute
// in-memory mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
)

const (
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// AuthService implements the credential store operations: registration and
// authentication. Password hashing is delegated to auth.PasswordService.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates the input, hashes the password, and persists a new
// user. Returns the new user's ID, or a conflict error naming the duplicate
// field when the username or email is already taken.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return "", apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return "", apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if email == "" || !strings.Contains(email, "@") {
		return "", apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(rawPassword) < MinPasswordLength {
		return "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(rawPassword)
	if err != nil {
		return "", apperror.ValidationFailed("password", "password is too long")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Conflicts flow through untouched so the handler can flash the
		// duplicate-username / duplicate-email message.
		return "", err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", username),
	)

	return user.ID, nil
}

// Authenticate verifies a username/password pair and returns the user's ID.
//
// Unknown usernames and wrong passwords are indistinguishable to the
// caller — both yield the same invalid-credentials error, so the login page
// leaks nothing about which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, username, rawPassword string) (string, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", apperror.Unauthenticated("Invalid username or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, rawPassword); err != nil {
		s.logger.Info("failed login attempt", slog.String("username", username))
		return "", apperror.Unauthenticated("Invalid username or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user.ID, nil
}
