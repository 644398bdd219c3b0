package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/darknesspwnsu/tppcnomics-analytics/internal/domain"
	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a shared database handle for integration tests. Postgres via
// TEST_POSTGRES_DSN is preferred; TEST_SQLITE=1 selects an in-memory sqlite
// database for environments without a server.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		dsn := os.Getenv("TEST_POSTGRES_DSN")
		switch {
		case dsn != "":
			db, dbErr = gorm.Open(postgres.Open(dsn), cfg)
		case os.Getenv("TEST_SQLITE") == "1":
			db, dbErr = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
		default:
			dbErr = errMissingDSN
			return
		}
		if dbErr != nil {
			return
		}
		dbErr = autoMigrateAll(db)
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN (or TEST_SQLITE=1) to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Asset{},
		&types.VotingPair{},
		&types.AssetScore{},
		&types.VoteEvent{},
		&types.Voter{},
		&types.IngestionCursor{},
	)
}
