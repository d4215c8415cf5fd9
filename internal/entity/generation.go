package entity

import "time"

// 生成事件的终态。quota 只统计 accepted/rejected/skipped，failed 不占额度。
const (
	GenerationStatusAccepted = "accepted"
	GenerationStatusRejected = "rejected"
	GenerationStatusSkipped  = "skipped"
	GenerationStatusFailed   = "failed"
)

// DbGenerationEvent 一次 AI 生成尝试的终态记录，只插入、不更新不删除。
// 每日额度统计依赖该表的不可变性。
type DbGenerationEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID  uint  `gorm:"column:user_id;index:idx_events_user_day;not null" json:"user_id"`
	TopicID *uint `gorm:"column:topic_id;index" json:"topic_id"`

	Status            string  `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	IsRandom          bool    `gorm:"column:is_random;not null;default:false" json:"is_random"`
	RandomDomainLabel *string `gorm:"column:random_domain_label;type:varchar(64)" json:"random_domain_label"`

	// DayUTC 事件所属的 UTC 日历日（YYYY-MM-DD），写入时根据创建时间推导。
	DayUTC string `gorm:"column:day_utc;type:varchar(10);index:idx_events_user_day;not null" json:"day_utc"`

	// 遥测字段，无行为影响
	Model            string `gorm:"column:model;type:varchar(128)" json:"model,omitempty"`
	PromptTokens     int    `gorm:"column:prompt_tokens" json:"prompt_tokens,omitempty"`
	CompletionTokens int    `gorm:"column:completion_tokens" json:"completion_tokens,omitempty"`
	LatencyMS        int64  `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
}

// TableName 指定表名
func (DbGenerationEvent) TableName() string {
	return "generation_events"
}

// LimitPayload 当日剩余决定次数与重置时间
type LimitPayload struct {
	Remaining  int       `json:"remaining"`
	ResetAtUTC time.Time `json:"reset_at_utc"`
}

// ProposalPayload AI 生成的候选卡片（未持久化）
type ProposalPayload struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type GenerateRequest struct {
	TopicID uint `json:"topic_id" binding:"required"`
}

type GenerateResponse struct {
	Proposal          ProposalPayload `json:"proposal"`
	Limit             LimitPayload    `json:"limit"`
	IsRandom          bool            `json:"is_random"`
	RandomDomainLabel string          `json:"random_domain_label,omitempty"`
}

// AcceptRequest 采纳一张生成卡片。is_random / random_domain_label 由客户端
// 原样回传（见 DESIGN.md 中关于信任不对称的说明）。
type AcceptRequest struct {
	TopicID           uint   `json:"topic_id" binding:"required"`
	Front             string `json:"front" binding:"required"`
	Back              string `json:"back" binding:"required"`
	IsRandom          bool   `json:"is_random"`
	RandomDomainLabel string `json:"random_domain_label"`
}

type AcceptResponse struct {
	FlashcardID uint `json:"flashcard_id"`
	EventID     uint `json:"event_id"`
}

// DecisionRequest 拒绝或跳过一张生成卡片。is_random 由服务端从主题重新
// 推导，标签仅在主题确为随机主题且位于目录中时入账。
type DecisionRequest struct {
	TopicID uint `json:"topic_id" binding:"required"`
	// IsRandom 客户端可回传但服务端不信任，仅为兼容保留
	IsRandom          bool   `json:"is_random"`
	RandomDomainLabel string `json:"random_domain_label"`
}

type DecisionResponse struct {
	EventID uint `json:"event_id"`
}

type GenerationEventQuery struct {
	BaseParams
	UserID uint   `json:"-"`
	Status string `json:"status" form:"status"`
	DayUTC string `json:"day" form:"day"`
}

type GenerationEventListResponse struct {
	Events []DbGenerationEvent `json:"events"`
	Meta   *Meta               `json:"meta"`
}
