package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/auth"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
	"github.com/sakif/donation-hub/internal/validation"
)

const (
	msgUserExists         = "User Already Exists"
	msgInvalidCredentials = "Invalid Credentials"
	minPasswordLength     = 6
)

// AuthService handles registration, login and the current-user lookup.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and returns a token for it.
//
// Every failing field is reported at once. An email that is already taken,
// either found up front or rejected by the store's unique index when two
// registrations race, answers with the same "User Already Exists" list.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if err := validation.New().
		Required("name", name, "Name is required").
		Email("email", email, "Please Enter a valid email address").
		MinLength("password", password, minPasswordLength, "Please Enter a password of minimum 6 length").
		Err(); err != nil {
		return "", err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", errorList(msgUserExists)
	case !errors.Is(err, apperror.ErrNotFound):
		return "", fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperror.ValidationFailed("password", "Password must be 72 bytes or fewer")
		}
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Avatar:   auth.GravatarURL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return "", errorList(msgUserExists)
		}
		return "", fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.issue(user)
}

// Login checks the credentials and returns a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if err := validation.New().
		Email("email", email, "Please Enter the email address").
		Required("password", password, "Please enter password").
		Err(); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", errorList(msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: finding user: %w", err)
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", errorList(msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: verifying password: %w", err)
	}

	return s.issue(user)
}

// CurrentUser returns the caller's record. The password hash is on the
// model but never serialised.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isLookupMiss(err) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (string, error) {
	token, err := s.tokens.Generate(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return token, nil
}
