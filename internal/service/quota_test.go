package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"flashcard/internal/config"
	"flashcard/internal/entity"
)

func TestDayUTC(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "UTC 正午",
			now:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			want: "2024-03-01",
		},
		{
			name: "UTC 日界前一秒",
			now:  time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
			want: "2024-03-01",
		},
		{
			name: "正零点属于新的一天",
			now:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			want: "2024-03-02",
		},
		{
			name: "东八区晚间换算成 UTC 当天",
			now:  time.Date(2024, 3, 2, 2, 0, 0, 0, time.FixedZone("CST", 8*3600)),
			want: "2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayUTC(tt.now); got != tt.want {
				t.Errorf("DayUTC(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextUTCMidnight(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "日界前一秒重置到次日零点",
			now:  time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
			want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "正零点时重置时间严格在未来",
			now:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "月末跨月",
			now:  time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "非 UTC 时区按 UTC 计算",
			now:  time.Date(2024, 3, 1, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			want: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextUTCMidnight(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextUTCMidnight(%v) = %v, want %v", tt.now, got, tt.want)
			}
			if !got.After(tt.now) {
				t.Errorf("NextUTCMidnight(%v) = %v, 必须严格晚于输入时刻", tt.now, got)
			}
		})
	}
}

func TestDecisionLimit(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		limit         int
		count         int64
		countErr      error
		wantRemaining int
		wantErr       bool
	}{
		{name: "无任何决定时剩余等于上限", limit: 20, count: 0, wantRemaining: 20},
		{name: "部分消耗", limit: 20, count: 7, wantRemaining: 13},
		{name: "恰好用尽", limit: 20, count: 20, wantRemaining: 0},
		{name: "超量历史数据不产生负数", limit: 5, count: 10, wantRemaining: 0},
		{name: "统计失败时上抛错误", limit: 20, countErr: errors.New("db gone"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{countResult: tt.count, countErr: tt.countErr}
			svc := newTestService(repo, nil, tt.limit)

			got, err := svc.DecisionLimit(context.Background(), 1, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecisionLimit() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecisionLimit() error = %v", err)
			}
			if got.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", got.Remaining, tt.wantRemaining)
			}
			want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
			if !got.ResetAtUTC.Equal(want) {
				t.Errorf("ResetAtUTC = %v, want %v", got.ResetAtUTC, want)
			}
		})
	}
}

func TestDecisionLimitCountsDayBucket(t *testing.T) {
	repo := &stubRepository{countResult: 3}
	svc := newTestService(repo, nil, 20)

	now := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
	if _, err := svc.DecisionLimit(context.Background(), 42, now); err != nil {
		t.Fatalf("DecisionLimit() error = %v", err)
	}
	if repo.countDay != "2024-03-01" {
		t.Errorf("统计使用的日桶 = %q, want %q", repo.countDay, "2024-03-01")
	}
	if repo.countUser != 42 {
		t.Errorf("统计使用的用户 = %d, want 42", repo.countUser)
	}
}

func newTestService(repo Repository, ai *stubCompletion, limit int) *GenerationService {
	cfg := config.Config{
		AIModel:                  "test-model",
		AIDailyDecisionLimit:     limit,
		AIGenerateTimeoutSeconds: 5,
		AIShortenTimeoutSeconds:  5,
	}
	var completion *stubCompletion
	if ai != nil {
		completion = ai
	} else {
		completion = &stubCompletion{}
	}
	return NewGenerationService(repo, completion, cfg)
}

// stubRepository 实现 Repository，记录调用参数供断言。
type stubRepository struct {
	countResult int64
	countErr    error
	countUser   uint
	countDay    string

	recentFronts []string
	recentErr    error

	events     []*entity.DbGenerationEvent
	eventErr   error
	flashcards []*entity.DbFlashcard
	cardErr    error
}

func (s *stubRepository) CountDecisionEvents(_ context.Context, userID uint, dayUTC string) (int64, error) {
	s.countUser = userID
	s.countDay = dayUTC
	return s.countResult, s.countErr
}

func (s *stubRepository) ListRecentGeneratedFronts(_ context.Context, _, _ uint, _ int) ([]string, error) {
	return s.recentFronts, s.recentErr
}

func (s *stubRepository) CreateGenerationEvent(_ context.Context, event *entity.DbGenerationEvent) error {
	if s.eventErr != nil {
		return s.eventErr
	}
	event.ID = uint(len(s.events) + 1)
	s.events = append(s.events, event)
	return nil
}

func (s *stubRepository) CreateFlashcard(_ context.Context, card *entity.DbFlashcard) error {
	if s.cardErr != nil {
		return s.cardErr
	}
	card.ID = uint(len(s.flashcards) + 1)
	s.flashcards = append(s.flashcards, card)
	return nil
}
