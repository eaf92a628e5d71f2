package handlers

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/corvid-labs/moirai/internal/models"
)

// OpenTestDB creates a SQLite in-memory DB unique per test with the
// notification tables migrated. Shared cache plus a busy timeout keep the
// pooled connections on the same database and reduce SQLITE locking during
// parallel tests.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}, &models.NotificationProvider{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}
