package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lmarques/goaltrack-be/internal/access"
	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
	"github.com/lmarques/goaltrack-be/internal/store"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// TargetInput carries the target fields supplied with a create or update.
type TargetInput struct {
	Title    string
	Target   int64
	Progress int64
}

// GoalServiceProvider defines the interface for goal use cases. Every
// mutation runs as one transaction: the goal is loaded, the access policy is
// applied (missing before forbidden), the write happens, and the transaction
// commits — or nothing is persisted at all.
type GoalServiceProvider interface {
	Create(ctx context.Context, ownerID int64, title, description string, private bool, targets []TargetInput) (*models.Goal, error)
	Get(ctx context.Context, goalID, requesterID int64) (*models.Goal, error)
	ListOwn(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Goal, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Goal, error)
	Update(ctx context.Context, goalID, requesterID int64, title, description string, private bool) (*models.Goal, error)
	Delete(ctx context.Context, goalID, requesterID int64) error
}

// GoalService provides business logic for goal management.
type GoalService struct {
	db      *sqlx.DB
	goals   store.GoalStore
	targets store.TargetStore
}

// NewGoalService creates a new GoalService.
func NewGoalService(db *sqlx.DB) *GoalService {
	return &GoalService{db: db}
}

// Create inserts the goal and all supplied targets in one transaction and
// returns the goal reloaded with its target collection. Any invalid target
// aborts the whole creation before a row is written.
func (s *GoalService) Create(ctx context.Context, ownerID int64, title, description string, private bool, targets []TargetInput) (*models.Goal, error) {
	if title == "" {
		return nil, apperrors.Validation("title", "must not be empty")
	}
	for _, t := range targets {
		if err := validateTargetInput(t); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	goal := &models.Goal{UserID: ownerID, Title: title, Description: description, Private: private}
	if err := s.goals.Insert(ctx, tx, goal); err != nil {
		return nil, err
	}
	for _, t := range targets {
		target := &models.Target{GoalID: goal.ID, Title: t.Title, Target: t.Target, Progress: t.Progress}
		if err := s.targets.Insert(ctx, tx, target); err != nil {
			return nil, err
		}
	}

	created, err := s.goals.ByID(ctx, tx, goal.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns the hydrated goal when the requester may read it. A private
// goal of another user is indistinguishable from a missing one.
func (s *GoalService) Get(ctx context.Context, goalID, requesterID int64) (*models.Goal, error) {
	goal, err := s.goals.ByID(ctx, s.db, goalID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckRead(goal, requesterID); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListOwn returns the requester's goals, ordered by id ascending.
func (s *GoalService) ListOwn(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Goal, error) {
	limit, offset = clampPage(limit, offset)
	return s.goals.ListByOwner(ctx, s.db, ownerID, limit, offset)
}

// ListPublic returns non-private goals of all users, ordered by id ascending.
func (s *GoalService) ListPublic(ctx context.Context, limit, offset int) ([]*models.Goal, error) {
	limit, offset = clampPage(limit, offset)
	return s.goals.ListPublic(ctx, s.db, limit, offset)
}

// Update mutates title, description and visibility of an owned goal.
func (s *GoalService) Update(ctx context.Context, goalID, requesterID int64, title, description string, private bool) (*models.Goal, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	goal, err := s.goals.ByID(ctx, tx, goalID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckModify(goal, requesterID); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apperrors.Validation("title", "must not be empty")
	}

	goal.Title = title
	goal.Description = description
	goal.Private = private
	if err := s.goals.Update(ctx, tx, goal); err != nil {
		return nil, err
	}

	updated, err := s.goals.ByID(ctx, tx, goal.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an owned goal; its targets go with it via the cascade.
func (s *GoalService) Delete(ctx context.Context, goalID, requesterID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	goal, err := s.goals.ByID(ctx, tx, goalID)
	if err != nil {
		return err
	}
	if err := access.CheckModify(goal, requesterID); err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, tx, goal.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// validateTargetInput enforces the target invariants on every mutation path:
// non-empty title, non-negative values, progress bounded by target.
func validateTargetInput(t TargetInput) error {
	if t.Title == "" {
		return apperrors.Validation("target title", "must not be empty")
	}
	if t.Target < 0 {
		return apperrors.Validation("target", "must not be negative")
	}
	if t.Progress < 0 {
		return apperrors.Validation("progress", "must not be negative")
	}
	if t.Progress > t.Target {
		return apperrors.Validation("progress", "can not be greater than target")
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
