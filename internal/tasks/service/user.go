package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store"
	"github.com/aussiebroadwan/tasktab/pkg/cryptox"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
	"github.com/aussiebroadwan/tasktab/pkg/slogx"
)

var (
	ErrInvalidInput  = errors.New("invalid_input")
	ErrDuplicateUser = errors.New("duplicate_user")

	// ErrUserNotFound and ErrInvalidCredentials are distinguishable here so
	// callers can log the difference, but both must surface to clients as
	// the same 401 response.
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// UserService is the credential store: it owns registration and password
// verification. No other component reads password hashes.
type UserService struct {
	Store store.Store
}

// Register creates a new user with a salted Argon2id password hash. The
// username check and insert run in one transaction; the UNIQUE constraint on
// username is the backstop for races.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrDuplicateUser
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateUser
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID.String(), "username", username)
	return user, nil
}

// Verify checks a username/password pair against the stored hash and returns
// the matching user. The hash comparison is constant-time.
func (s *UserService) Verify(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID idx.ID) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}
