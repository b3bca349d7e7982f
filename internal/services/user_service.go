package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/config"
	"github.com/lmarques/goaltrack-be/internal/models"
	"github.com/lmarques/goaltrack-be/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

// UserService provides business logic for accounts and credentials.
type UserService struct {
	db         *sqlx.DB
	users      store.UserStore
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sqlx.DB, cfg *config.Config) *UserService {
	return &UserService{db: db, bcryptCost: cfg.BcryptCost}
}

// Register creates a new account. Duplicate email or username is a Conflict;
// the schema's UNIQUE constraints back the pre-check, so two concurrent
// registrations of the same name cannot both commit.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("email", "must be a valid email address")
	}
	if username == "" {
		return nil, apperrors.Validation("username", "must not be empty")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := s.users.ByEmailOrUsername(ctx, tx, email, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, fmt.Errorf("%w: email is already taken", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
	}

	user := &models.User{Email: email, Username: username, PasswordHash: string(hash)}
	if err := s.users.Insert(ctx, tx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or username is already taken", apperrors.ErrConflict)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials. The error never says which of
// the username or the password was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.ByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthenticated)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthenticated)
	}
	return user, nil
}

// GetByUsername retrieves a single user by name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.ByUsername(ctx, s.db, username)
}

// GetByID retrieves a single user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.ByID(ctx, s.db, id)
}

// Delete removes the account and, through the cascade, every goal and target
// the user owns.
func (s *UserService) Delete(ctx context.Context, username string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.users.DeleteByUsername(ctx, tx, username); err != nil {
		return err
	}
	return tx.Commit()
}

// validatePassword enforces the registration password policy: at least eight
// characters with a lowercase letter, an uppercase letter and a digit.
func validatePassword(password string) error {
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if len(password) < 8 || !hasLower || !hasUpper || !hasDigit {
		return apperrors.Validation("password",
			"must be at least eight characters with a lowercase letter, an uppercase letter and a digit")
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
