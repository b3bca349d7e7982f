package services

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/lmarques/goaltrack-be/internal/access"
	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
	"github.com/lmarques/goaltrack-be/internal/store"
)

// TargetServiceProvider defines the interface for target use cases. Each one
// gates on write access to the parent goal before touching the target.
type TargetServiceProvider interface {
	Add(ctx context.Context, goalID, requesterID int64, input TargetInput) (*models.Target, error)
	Update(ctx context.Context, goalID, targetID, requesterID int64, input TargetInput) (*models.Target, error)
	Delete(ctx context.Context, goalID, targetID, requesterID int64) error
}

// TargetService provides business logic for targets nested under goals.
type TargetService struct {
	db      *sqlx.DB
	goals   store.GoalStore
	targets store.TargetStore
}

// NewTargetService creates a new TargetService.
func NewTargetService(db *sqlx.DB) *TargetService {
	return &TargetService{db: db}
}

// Add inserts a target under a goal the requester owns.
func (s *TargetService) Add(ctx context.Context, goalID, requesterID int64, input TargetInput) (*models.Target, error) {
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
	if err := validateTargetInput(input); err != nil {
		return nil, err
	}

	target := &models.Target{GoalID: goalID, Title: input.Title, Target: input.Target, Progress: input.Progress}
	if err := s.targets.Insert(ctx, tx, target); err != nil {
		return nil, err
	}

	created, err := s.targets.ByID(ctx, tx, target.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// Update mutates a target's fields. Target lookup is by bare id, so a target
// hanging off a different goal must come back as NotFound; a silent
// cross-goal write would let an owner of one goal edit another's targets.
func (s *TargetService) Update(ctx context.Context, goalID, targetID, requesterID int64, input TargetInput) (*models.Target, error) {
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

	target, err := s.targets.ByID(ctx, tx, targetID)
	if err != nil {
		return nil, err
	}
	if target.GoalID != goalID {
		return nil, apperrors.ErrNotFound
	}
	if err := validateTargetInput(input); err != nil {
		return nil, err
	}

	target.Title = input.Title
	target.Target = input.Target
	target.Progress = input.Progress
	if err := s.targets.Update(ctx, tx, target); err != nil {
		return nil, err
	}

	updated, err := s.targets.ByID(ctx, tx, target.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a target from a goal the requester owns. Deleting a target
// that is already gone (or that belongs to another goal) is a no-op, unlike
// Update which reports NotFound for the same input.
func (s *TargetService) Delete(ctx context.Context, goalID, targetID, requesterID int64) error {
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

	target, err := s.targets.ByID(ctx, tx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return tx.Commit()
		}
		return err
	}
	if target.GoalID != goalID {
		return tx.Commit()
	}

	if err := s.targets.Delete(ctx, tx, target.ID); err != nil {
		return err
	}
	return tx.Commit()
}
