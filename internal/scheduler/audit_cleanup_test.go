package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soonhyok/accountd/internal/database/audit"
	"github.com/soonhyok/accountd/internal/entities"
)

func setupTestRepo(t *testing.T) *audit.Repository {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return audit.NewRepository(db)
}

func TestAuditCleanup_RunNow(t *testing.T) {
	repo := setupTestRepo(t)

	now := time.Now()
	for _, age := range []time.Duration{-40 * 24 * time.Hour, -20 * 24 * time.Hour} {
		err := repo.LogEvent(&entities.AuditEvent{
			AccountID: 1,
			EventType: entities.AuditEventLogin,
			Username:  "soon",
			CreatedAt: now.Add(age),
		})
		require.NoError(t, err)
	}

	s := NewAuditCleanupScheduler(repo, 30)
	deleted, err := s.RunNow()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, total, err := repo.GetEvents(0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestAuditCleanup_StartStop(t *testing.T) {
	repo := setupTestRepo(t)
	s := NewAuditCleanupScheduler(repo, 30)

	require.NoError(t, s.Start("0 3 * * *"))
	assert.True(t, s.IsRunning())

	// Starting twice is a no-op
	require.NoError(t, s.Start("0 3 * * *"))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestAuditCleanup_InvalidSchedule(t *testing.T) {
	repo := setupTestRepo(t)
	s := NewAuditCleanupScheduler(repo, 30)

	err := s.Start("not a schedule")
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestAuditCleanup_DisabledRetention(t *testing.T) {
	repo := setupTestRepo(t)
	s := NewAuditCleanupScheduler(repo, 0)

	require.NoError(t, s.Start("0 3 * * *"))
	assert.False(t, s.IsRunning(), "scheduler must stay idle when retention is disabled")
}
