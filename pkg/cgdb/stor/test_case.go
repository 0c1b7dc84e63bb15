package stor

import (
	"testing"

	"github.com/cloudgoose/storage/pkg/cgdb"
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens the in-memory sqlite database, runs migrations, and clears
// out any rows left behind by earlier tests in the package.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(cgdb.SqliteInMemoryDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoErrorf(t, err, "db.DB failed: %s", err)
	sqlitedb.SetMaxOpenConns(1)

	err = cgdb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	for _, table := range []string{"sharing_links", "files", "folders", "users"} {
		db.Exec("DELETE FROM " + table)
	}

	return db
}

type testCase struct {
	*testing.T
	db    *gorm.DB
	stors *Stors
}

func newTestCase(t *testing.T) *testCase {
	db := NewTestDB(t)

	return &testCase{
		T:     t,
		db:    db,
		stors: NewGormStors(db),
	}
}

// createUser creates a user with their root folder via the user stor.
func (tc *testCase) createUser(username string) *model.User {
	user, err := tc.stors.UserStor.CreateUserWithRoot(username, "test-hash")
	require.NoErrorf(tc.T, err, "Failed creating user %s: %s", username, err)
	require.NotNil(tc.T, user.RootFolder)

	return user
}
