package sql

import (
	"context"
	"fmt"
	"strings"

	"flashcard/internal/entity"
)

// CreateGenerationEvent 插入一条生成事件。事件表只插入，绝不更新或删除，
// 额度统计依赖这一点。
func (r *GormRepository) CreateGenerationEvent(ctx context.Context, event *entity.DbGenerationEvent) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if event == nil {
		return fmt.Errorf("event is nil")
	}
	if event.UserID == 0 {
		return fmt.Errorf("event owner is required")
	}
	switch event.Status {
	case entity.GenerationStatusAccepted, entity.GenerationStatusRejected,
		entity.GenerationStatusSkipped, entity.GenerationStatusFailed:
	default:
		return fmt.Errorf("invalid event status: %s", event.Status)
	}
	if event.DayUTC == "" {
		return fmt.Errorf("event day bucket is required")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// CountDecisionEvents 统计某用户在某个 UTC 日做出的决定次数。
// failed 事件明确排除在外：失败的尝试不消耗用户额度。
func (r *GormRepository) CountDecisionEvents(ctx context.Context, userID uint, dayUTC string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DbGenerationEvent{}).
		Where("user_id = ? AND day_utc = ? AND status IN ?", userID, dayUTC, []string{
			entity.GenerationStatusAccepted,
			entity.GenerationStatusRejected,
			entity.GenerationStatusSkipped,
		}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListGenerationEvents retrieves paginated generation events.
func (r *GormRepository) ListGenerationEvents(ctx context.Context, params *entity.GenerationEventQuery) ([]entity.DbGenerationEvent, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil || params.UserID == 0 {
		return nil, nil, fmt.Errorf("event owner is required")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbGenerationEvent{}).
		Where("user_id = ?", params.UserID)
	if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	if trimmed := strings.TrimSpace(params.DayUTC); trimmed != "" {
		query = query.Where("day_utc = ?", trimmed)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	offset, pageSize := normalisePage(params.BaseParams)

	var events []entity.DbGenerationEvent
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&events).Error; err != nil {
		return nil, nil, err
	}

	return events, r.calculatePagination(totalCount, offset/pageSize+1, pageSize), nil
}
