package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// testDatabase connects to TEST_DATABASE_URL, which must already carry the
// schema from db/migrations. Tests are skipped when it is unset.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = database.NewPostgreSQLDB(context.Background(), dsn)
	})
	require.NoError(t, testDBErr, "failed to connect to test database")

	truncateAllTables(t, testDB)
	return testDB
}

// truncateAllTables empties every table except the system settings rows.
func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range []string{"attendance", "employees", "settings_templates", "users"} {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
	_, err = tx.Exec(ctx, "DELETE FROM settings WHERE user_id IS NOT NULL")
	require.NoError(t, err)

	require.NoError(t, tx.Commit(ctx))
}
