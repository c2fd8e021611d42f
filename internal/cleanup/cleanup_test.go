package cleanup

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"burim-estate/internal/database"
	"burim-estate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cleanupNow = time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *database.GormDB) {
	t.Helper()
	gdb, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cleanup.db"))
	require.NoError(t, err)
	require.NoError(t, gdb.InitSchema())
	t.Cleanup(func() { _ = gdb.Close() })

	svc := NewService(gdb.DB(), nil)
	svc.now = func() time.Time { return cleanupNow }
	return svc, gdb
}

func seedNews(t *testing.T, gdb *database.GormDB, n int, status models.NewsStatus, age time.Duration) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := &models.NewsItem{
			Slug:      fmt.Sprintf("news-%s-%d-%d", status, int(age.Hours()), i),
			Title:     fmt.Sprintf("%s 기사 %d", status, i),
			SourceURL: fmt.Sprintf("https://example.com/%s/%d/%d", status, int(age.Hours()), i),
			Category:  models.NewsCategoryNational,
			Status:    status,
			CreatedAt: cleanupNow.Add(-age),
		}
		require.NoError(t, gdb.DB().Create(item).Error)
		ids = append(ids, item.ID)
	}
	return ids
}

func TestPhysicallyDelete_RemovesOnlyStaleDrafts(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	stale := seedNews(t, gdb, 2, models.NewsStatusDraft, 40*24*time.Hour)
	seedNews(t, gdb, 1, models.NewsStatusDraft, 2*24*time.Hour)
	seedNews(t, gdb, 1, models.NewsStatusPublished, 60*24*time.Hour)

	result, err := svc.PhysicallyDelete(ctx, CleanupConfig{RetentionDays: 30, MaxDeletionCount: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TargetCount)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Zero(t, result.ErrorCount)
	assert.ElementsMatch(t, stale, result.DeletedNews)

	var remaining int64
	require.NoError(t, gdb.DB().Model(&models.NewsItem{}).Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)

	logs, err := svc.GetRecentDeleteLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.EntityNews, l.EntityType)
		assert.Equal(t, models.DeleteReasonStaleDraft, l.Reason)
		assert.NotEmpty(t, l.SourceURL)
	}
}

func TestPhysicallyDelete_DryRun(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	seedNews(t, gdb, 3, models.NewsStatusDraft, 31*24*time.Hour)

	result, err := svc.PhysicallyDelete(ctx, CleanupConfig{RetentionDays: 30, MaxDeletionCount: 10, DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.DeletedCount)

	var remaining int64
	require.NoError(t, gdb.DB().Model(&models.NewsItem{}).Count(&remaining).Error)
	assert.EqualValues(t, 3, remaining)

	logs, err := svc.GetRecentDeleteLogs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestPhysicallyDelete_SafetyLimit(t *testing.T) {
	svc, gdb := newTestService(t)

	seedNews(t, gdb, 3, models.NewsStatusDraft, 31*24*time.Hour)

	_, err := svc.PhysicallyDelete(context.Background(), CleanupConfig{RetentionDays: 30, MaxDeletionCount: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safety check failed")

	var remaining int64
	require.NoError(t, gdb.DB().Model(&models.NewsItem{}).Count(&remaining).Error)
	assert.EqualValues(t, 3, remaining)
}

func TestPhysicallyDelete_NothingToDo(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.PhysicallyDelete(context.Background(), DefaultCleanupConfig())
	require.NoError(t, err)
	assert.Zero(t, result.TargetCount)
	assert.NotNil(t, result.DeletedNews)
}

func TestGetDeleteStats(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	seedNews(t, gdb, 2, models.NewsStatusDraft, 40*24*time.Hour)
	_, err := svc.PhysicallyDelete(ctx, CleanupConfig{RetentionDays: 30})
	require.NoError(t, err)
	seedNews(t, gdb, 1, models.NewsStatusDraft, 35*24*time.Hour)

	stats, err := svc.GetDeleteStats(ctx, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalDeleted)
	assert.EqualValues(t, 2, stats.ByReason[models.DeleteReasonStaleDraft])
	assert.EqualValues(t, 2, stats.ByEntity[models.EntityNews])
	assert.Equal(t, 1, stats.StaleDraftsReady)
}
