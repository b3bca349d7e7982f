package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
)

// UserStore persists user rows. It is stateless; every method takes the
// sqlx.ExtContext it should run on, so the same store works inside a
// transaction or directly on the pool.
type UserStore struct{}

// Insert creates the user row and fills in ID and CreatedAt.
// Uniqueness of email and username is enforced by the schema.
func (UserStore) Insert(ctx context.Context, ext sqlx.ExtContext, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	res, err := ext.ExecContext(ctx,
		`INSERT INTO users (email, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.Email, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// ByID returns the user or ErrNotFound.
func (UserStore) ByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, ext, &user,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByUsername returns the user or ErrNotFound.
func (UserStore) ByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, ext, &user,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByEmailOrUsername returns any user holding either value, for the friendly
// duplicate-registration check. ErrNotFound when both are free.
func (UserStore) ByEmailOrUsername(ctx context.Context, ext sqlx.ExtContext, email, username string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, ext, &user,
		`SELECT id, email, username, password_hash, created_at FROM users
		 WHERE email = ? OR username = ? LIMIT 1`, email, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteByUsername removes the user; goals and targets go with it via the
// foreign-key cascade. Deleting an absent user is not an error.
func (UserStore) DeleteByUsername(ctx context.Context, ext sqlx.ExtContext, username string) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	return err
}
