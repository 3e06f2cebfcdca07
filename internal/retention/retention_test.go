package retention

import (
	"context"
	"testing"
	"time"

	"devmate/internal/database"
	"devmate/internal/models"
	"devmate/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, read bool, age time.Duration) uint {
	t.Helper()

	n := &models.Notification{
		UserID:    1,
		ActorID:   2,
		Type:      models.NotificationTypeLike,
		Read:      read,
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(n).Error)
	return n.ID
}

func TestJanitor_RunOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	janitor := NewJanitor(repo)

	seedNotification(t, db, true, ReadNotificationMaxAge+time.Hour)
	oldUnread := seedNotification(t, db, false, ReadNotificationMaxAge+time.Hour)
	recentRead := seedNotification(t, db, true, time.Hour)

	removed := janitor.RunOnce(context.Background())
	assert.EqualValues(t, 1, removed)

	var remaining []uint
	require.NoError(t, db.Model(&models.Notification{}).Pluck("id", &remaining).Error)
	assert.ElementsMatch(t, []uint{oldUnread, recentRead}, remaining)

	// nothing left to purge on the next pass
	assert.Zero(t, janitor.RunOnce(context.Background()))
}

func TestJanitor_StartAndStop(t *testing.T) {
	db := setupTestDB(t)
	janitor := NewJanitor(repository.NewNotificationRepository(db))

	require.NoError(t, janitor.Start())
	janitor.Stop()
}
