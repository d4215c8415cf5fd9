package sql

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flashcard/internal/entity"
)

func newTestRepo(t *testing.T) *GormRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "flashcard_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开 sqlite 失败: %v", err)
	}
	if err := db.AutoMigrate(&entity.DbGenerationEvent{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return NewGormRepository(db)
}

func mustCreateEvent(t *testing.T, repo *GormRepository, userID uint, day, status string) {
	t.Helper()
	err := repo.CreateGenerationEvent(context.Background(), &entity.DbGenerationEvent{
		UserID: userID,
		Status: status,
		DayUTC: day,
	})
	if err != nil {
		t.Fatalf("写入事件失败: %v", err)
	}
}

func TestCountDecisionEventsExcludesFailed(t *testing.T) {
	repo := newTestRepo(t)
	day := "2026-09-01"

	// 4 条决定 + 3 条 failed，failed 不消耗额度
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusAccepted)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusAccepted)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusRejected)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusSkipped)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusFailed)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusFailed)
	mustCreateEvent(t, repo, 1, day, entity.GenerationStatusFailed)

	// 其他用户与其他日期不计入
	mustCreateEvent(t, repo, 2, day, entity.GenerationStatusAccepted)
	mustCreateEvent(t, repo, 1, "2026-08-31", entity.GenerationStatusAccepted)

	count, err := repo.CountDecisionEvents(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("CountDecisionEvents() error = %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func TestCreateGenerationEventRejectsInvalidInput(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name  string
		event *entity.DbGenerationEvent
	}{
		{name: "空事件", event: nil},
		{name: "缺少用户", event: &entity.DbGenerationEvent{Status: entity.GenerationStatusAccepted, DayUTC: "2026-09-01"}},
		{name: "未知状态", event: &entity.DbGenerationEvent{UserID: 1, Status: "pending", DayUTC: "2026-09-01"}},
		{name: "缺少日期桶", event: &entity.DbGenerationEvent{UserID: 1, Status: entity.GenerationStatusAccepted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.CreateGenerationEvent(context.Background(), tt.event); err == nil {
				t.Error("非法事件应被拒绝")
			}
		})
	}
}
