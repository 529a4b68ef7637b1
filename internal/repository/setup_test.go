package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openclaw/portfolio-server-go/internal/database"
)

// setupTestDB connects to TEST_DATABASE_URL, applies migrations and empties every table.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(url)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	_, err = db.ExecContext(ctx, `TRUNCATE admin_sessions, admin_accounts, projects, skills CASCADE`)
	require.NoError(t, err)

	return db
}
