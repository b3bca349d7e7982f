package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lmarques/goaltrack-be/internal/config"
	"github.com/lmarques/goaltrack-be/internal/database"
	"github.com/lmarques/goaltrack-be/internal/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func createTestUser(t *testing.T, db *sqlx.DB, username string) *models.User {
	t.Helper()
	user, err := NewUserService(db, testConfig()).Register(
		context.Background(), username+"@example.com", username, "Passw0rd1")
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
