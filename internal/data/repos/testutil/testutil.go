package testutil

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

var (
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

// DB returns a freshly migrated in-memory database private to tb.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	svc, err := db.NewSQLiteService(Logger(tb), ":memory:", true)
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := svc.DB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return svc.DB()
}

// Tx opens a transaction rolled back when tb finishes. The test db holds a single
// connection, so nothing may use the root handle while the transaction is open.
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
