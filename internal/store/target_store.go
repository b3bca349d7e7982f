package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
)

// TargetStore persists target rows. Lookup is by bare id; scoping a target to
// its goal is the caller's job (the use-case layer rechecks GoalID after
// every lookup).
type TargetStore struct{}

// Insert creates the target row and fills in ID.
func (TargetStore) Insert(ctx context.Context, ext sqlx.ExtContext, target *models.Target) error {
	res, err := ext.ExecContext(ctx,
		`INSERT INTO targets (goal_id, title, target, progress) VALUES (?, ?, ?, ?)`,
		target.GoalID, target.Title, target.Target, target.Progress,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	target.ID = id
	return nil
}

// ByID returns the target or ErrNotFound.
func (TargetStore) ByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*models.Target, error) {
	var target models.Target
	err := sqlx.GetContext(ctx, ext, &target,
		`SELECT id, goal_id, title, target, progress FROM targets WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// Update flushes title, target and progress. GoalID is never touched.
func (TargetStore) Update(ctx context.Context, ext sqlx.ExtContext, target *models.Target) error {
	res, err := ext.ExecContext(ctx,
		`UPDATE targets SET title = ?, target = ?, progress = ? WHERE id = ?`,
		target.Title, target.Target, target.Progress, target.ID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the target. Deleting an absent row is not an error.
func (TargetStore) Delete(ctx context.Context, ext sqlx.ExtContext, id int64) error {
	_, err := ext.ExecContext(ctx, `DELETE FROM targets WHERE id = ?`, id)
	return err
}
