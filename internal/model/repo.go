package model

import (
	"context"

	"flashcard/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)

	// 集合
	CreateCollection(ctx context.Context, collection *entity.DbCollection) error
	ListCollections(ctx context.Context, userID uint) ([]entity.DbCollection, error)
	GetCollection(ctx context.Context, userID, id uint) (*entity.DbCollection, error)
	UpdateCollection(ctx context.Context, userID, id uint, updates entity.CollectionUpdates) error
	DeleteCollection(ctx context.Context, userID, id uint) error

	// 主题
	CreateTopic(ctx context.Context, topic *entity.DbTopic) error
	ListTopics(ctx context.Context, userID uint, params *entity.TopicQuery) ([]entity.DbTopic, *entity.Meta, error)
	GetTopic(ctx context.Context, userID, id uint) (*entity.DbTopic, error)
	UpdateTopic(ctx context.Context, userID, id uint, updates entity.TopicUpdates) error
	DeleteTopic(ctx context.Context, userID, id uint) error

	// 卡片
	CreateFlashcard(ctx context.Context, card *entity.DbFlashcard) error
	ListFlashcards(ctx context.Context, userID uint, params *entity.FlashcardQuery) ([]entity.DbFlashcard, *entity.Meta, error)
	GetFlashcard(ctx context.Context, userID, id uint) (*entity.DbFlashcard, error)
	// ListFlashcardsByCollection 返回集合下全部卡片，按创建时间升序，用于导出。
	ListFlashcardsByCollection(ctx context.Context, userID, collectionID uint) ([]entity.DbFlashcard, error)
	UpdateFlashcard(ctx context.Context, userID, id uint, updates entity.FlashcardUpdates) error
	DeleteFlashcard(ctx context.Context, userID, id uint) error

	// ListRecentGeneratedFronts 返回某主题下最近被采纳的 AI 卡片正面，
	// 按创建时间倒序，用于生成时的防重复提示。
	ListRecentGeneratedFronts(ctx context.Context, userID, topicID uint, limit int) ([]string, error)

	// 生成事件（只插入）
	CreateGenerationEvent(ctx context.Context, event *entity.DbGenerationEvent) error
	// CountDecisionEvents 统计某用户某个 UTC 日的决定次数
	// （status ∈ accepted/rejected/skipped，failed 不计入）。
	CountDecisionEvents(ctx context.Context, userID uint, dayUTC string) (int64, error)
	ListGenerationEvents(ctx context.Context, params *entity.GenerationEventQuery) ([]entity.DbGenerationEvent, *entity.Meta, error)
}
