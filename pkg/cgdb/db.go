package cgdb

import (
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN is the DSN tests use to get an in-memory database shared
// across the test binary's connections.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

const maxDBRetries = 5

// MakeDSNFromConfig builds the mysql DSN. The binary collation keeps name and
// username comparisons case sensitive, matching sqlite's default.
func MakeDSNFromConfig(getKey func(string) string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&collation=utf8mb4_bin&parseTime=True&loc=Local",
		getKey("DB_USERNAME"),
		getKey("DB_PASSWORD"),
		getKey("DB_HOST"),
		getKey("DB_PORT"),
		getKey("DB_DATABASE"))
}

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it
// isn't successful after that number of retries then it will call log.Fatalf(), which
// will cause the server to exit. Between retry attempts it will sleep for 3 seconds.
func MustConnectToDB(dsn string) *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Root folders carry a 0 parent id, so referential integrity for the
		// tree is handled in the stors rather than with database constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	retryCount := 1
	for {
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
		switch {
		case err == nil:
			// Connected to db, yay!
			return db
		case retryCount >= maxDBRetries:
			// Retry limit exceeded :-(
			log.Fatalf("Failed to open db (%s): %s", dsn, err)
		default:
			// Couldn't connect, so increment count, then wait a bit before trying again.
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// RunMigrations creates the schema for all models. Uniqueness of sibling names is
// enforced by the database itself so two writers racing the duplicate check can't
// both commit. On mysql the tables are created with the binary collation so
// equality on names and usernames is case sensitive, as it is on sqlite.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin")
	}

	return db.AutoMigrate(
		&model.User{},
		&model.Folder{},
		&model.File{},
		&model.SharingLink{},
	)
}
