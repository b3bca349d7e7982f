// Package access holds the ownership and visibility policies for goals.
// The policies are pure; persistence and transactions live elsewhere.
package access

import (
	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
)

// Anonymous is the requester id used when no identity accompanies a request.
// Real user ids start at 1.
const Anonymous int64 = 0

// CanRead reports whether requesterID may see the goal.
func CanRead(goal *models.Goal, requesterID int64) bool {
	return !goal.Private || goal.UserID == requesterID
}

// CanModify reports whether requesterID may mutate the goal or its targets.
func CanModify(goal *models.Goal, requesterID int64) bool {
	return goal.UserID == requesterID
}

// CheckRead fails closed: a missing goal and a hidden goal are both reported
// as ErrNotFound so existence never leaks.
func CheckRead(goal *models.Goal, requesterID int64) error {
	if goal == nil {
		return apperrors.ErrNotFound
	}
	if !CanRead(goal, requesterID) {
		return apperrors.ErrNotFound
	}
	return nil
}

// CheckModify gates every write to a goal or its targets. A goal the
// requester cannot even read stays ErrNotFound; a readable goal owned by
// someone else is ErrForbidden.
func CheckModify(goal *models.Goal, requesterID int64) error {
	if goal == nil {
		return apperrors.ErrNotFound
	}
	if !CanRead(goal, requesterID) {
		return apperrors.ErrNotFound
	}
	if !CanModify(goal, requesterID) {
		return apperrors.ErrForbidden
	}
	return nil
}
