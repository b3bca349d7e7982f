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

// GoalStore persists goal rows and hydrates their target collections.
// Every returned goal carries its targets in id order; no partially loaded
// goal ever escapes this package.
type GoalStore struct{}

// Insert creates the goal row and fills in ID and CreatedAt. Targets are
// inserted separately by TargetStore within the same transaction.
func (GoalStore) Insert(ctx context.Context, ext sqlx.ExtContext, goal *models.Goal) error {
	goal.CreatedAt = time.Now().UTC()
	res, err := ext.ExecContext(ctx,
		`INSERT INTO goals (user_id, title, description, private, created_at) VALUES (?, ?, ?, ?, ?)`,
		goal.UserID, goal.Title, goal.Description, goal.Private, goal.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	goal.ID = id
	return nil
}

// ByID returns the hydrated goal or ErrNotFound.
func (s GoalStore) ByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*models.Goal, error) {
	var goal models.Goal
	err := sqlx.GetContext(ctx, ext, &goal,
		`SELECT id, user_id, title, description, private, created_at FROM goals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, ext, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListByOwner returns the owner's goals ordered by id ascending, hydrated.
func (s GoalStore) ListByOwner(ctx context.Context, ext sqlx.ExtContext, ownerID int64, limit, offset int) ([]*models.Goal, error) {
	return s.list(ctx, ext,
		`SELECT id, user_id, title, description, private, created_at FROM goals
		 WHERE user_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
}

// ListPublic returns non-private goals ordered by id ascending, hydrated.
func (s GoalStore) ListPublic(ctx context.Context, ext sqlx.ExtContext, limit, offset int) ([]*models.Goal, error) {
	return s.list(ctx, ext,
		`SELECT id, user_id, title, description, private, created_at FROM goals
		 WHERE private = 0 ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, offset)
}

func (s GoalStore) list(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) ([]*models.Goal, error) {
	var rows []models.Goal
	if err := sqlx.SelectContext(ctx, ext, &rows, query, args...); err != nil {
		return nil, err
	}
	goals := make([]*models.Goal, 0, len(rows))
	for i := range rows {
		if err := s.hydrate(ctx, ext, &rows[i]); err != nil {
			return nil, err
		}
		goals = append(goals, &rows[i])
	}
	return goals, nil
}

// Update flushes title, description and private. UserID is never touched.
func (GoalStore) Update(ctx context.Context, ext sqlx.ExtContext, goal *models.Goal) error {
	res, err := ext.ExecContext(ctx,
		`UPDATE goals SET title = ?, description = ?, private = ? WHERE id = ?`,
		goal.Title, goal.Description, goal.Private, goal.ID,
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

// Delete removes the goal; its targets go with it via the cascade.
func (GoalStore) Delete(ctx context.Context, ext sqlx.ExtContext, id int64) error {
	res, err := ext.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
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

func (GoalStore) hydrate(ctx context.Context, ext sqlx.ExtContext, goal *models.Goal) error {
	targets := []models.Target{}
	err := sqlx.SelectContext(ctx, ext, &targets,
		`SELECT id, goal_id, title, target, progress FROM targets WHERE goal_id = ? ORDER BY id ASC`,
		goal.ID)
	if err != nil {
		return err
	}
	goal.Targets = targets
	return nil
}
