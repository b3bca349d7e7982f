package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/models"
)

func TestCanRead(t *testing.T) {
	public := &models.Goal{ID: 1, UserID: 7, Private: false}
	private := &models.Goal{ID: 2, UserID: 7, Private: true}

	assert.True(t, CanRead(public, 7))
	assert.True(t, CanRead(public, 8))
	assert.True(t, CanRead(public, Anonymous))

	assert.True(t, CanRead(private, 7))
	assert.False(t, CanRead(private, 8))
	assert.False(t, CanRead(private, Anonymous))
}

func TestCanModify(t *testing.T) {
	goal := &models.Goal{ID: 1, UserID: 7, Private: false}

	assert.True(t, CanModify(goal, 7))
	assert.False(t, CanModify(goal, 8))
	assert.False(t, CanModify(goal, Anonymous))
}

func TestCheckReadFailsClosed(t *testing.T) {
	assert.ErrorIs(t, CheckRead(nil, 7), apperrors.ErrNotFound)

	private := &models.Goal{ID: 2, UserID: 7, Private: true}
	// A hidden goal must be indistinguishable from a missing one.
	assert.ErrorIs(t, CheckRead(private, 8), apperrors.ErrNotFound)
	assert.NoError(t, CheckRead(private, 7))
}

func TestCheckModify(t *testing.T) {
	assert.ErrorIs(t, CheckModify(nil, 7), apperrors.ErrNotFound)

	public := &models.Goal{ID: 1, UserID: 7, Private: false}
	private := &models.Goal{ID: 2, UserID: 7, Private: true}

	assert.NoError(t, CheckModify(public, 7))
	assert.NoError(t, CheckModify(private, 7))

	// Readable but not owned: the requester already knows it exists.
	assert.ErrorIs(t, CheckModify(public, 8), apperrors.ErrForbidden)

	// Not even readable: existence must not leak through a write attempt.
	assert.ErrorIs(t, CheckModify(private, 8), apperrors.ErrNotFound)
}
