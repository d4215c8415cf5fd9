package service

import (
	"context"
	"fmt"
	"time"

	"flashcard/internal/entity"
)

// DayUTC 返回给定时刻所属的 UTC 日历日（YYYY-MM-DD），即额度桶的键。
func DayUTC(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// NextUTCMidnight 返回严格晚于 now 的下一个 UTC 零点，即额度重置时间。
func NextUTCMidnight(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// DecisionLimit 计算用户当日剩余的决定次数与重置时间。
// 只统计 accepted/rejected/skipped，failed 不消耗额度。
// 统计查询失败时原样上抛，不假设任何默认额度。
func (s *GenerationService) DecisionLimit(ctx context.Context, userID uint, now time.Time) (entity.LimitPayload, error) {
	count, err := s.repo.CountDecisionEvents(ctx, userID, DayUTC(now))
	if err != nil {
		return entity.LimitPayload{}, fmt.Errorf("count decision events: %w", err)
	}

	remaining := s.dailyLimit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return entity.LimitPayload{
		Remaining:  remaining,
		ResetAtUTC: NextUTCMidnight(now),
	}, nil
}
