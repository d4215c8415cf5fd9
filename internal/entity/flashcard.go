package entity

import "time"

const (
	// FlashcardSourceManual 用户手工创建的卡片
	FlashcardSourceManual = "manual"
	// FlashcardSourceAutoGenerated AI 生成并被用户采纳的卡片
	FlashcardSourceAutoGenerated = "auto_generated"
)

const (
	// FlashcardFrontMaxLen 卡片正面最大字符数
	FlashcardFrontMaxLen = 200
	// FlashcardBackMaxLen 卡片背面最大字符数
	FlashcardBackMaxLen = 600
)

// DbFlashcard 表示一张持久化的学习卡片。
type DbFlashcard struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  uint     `gorm:"column:user_id;index;not null" json:"user_id"`
	TopicID uint     `gorm:"column:topic_id;index;not null" json:"topic_id"`
	Topic   *DbTopic `gorm:"foreignKey:TopicID" json:"-"`

	Front string `gorm:"column:front;type:varchar(200);not null" json:"front"`
	Back  string `gorm:"column:back;type:varchar(600);not null" json:"back"`

	Source       string `gorm:"column:source;type:varchar(32);index;not null" json:"source"`
	IsFavorite   bool   `gorm:"column:is_favorite;not null;default:false" json:"is_favorite"`
	EditedByUser bool   `gorm:"column:edited_by_user;not null;default:false" json:"edited_by_user"`
}

// TableName 指定表名
func (DbFlashcard) TableName() string {
	return "flashcards"
}

type FlashcardCreateRequest struct {
	TopicID uint   `json:"topic_id" binding:"required"`
	Front   string `json:"front" binding:"required,max=200"`
	Back    string `json:"back" binding:"required,max=600"`
}

type FlashcardUpdateRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

type FlashcardQuery struct {
	BaseParams
	TopicID       uint `json:"topic_id" form:"topic_id"`
	FavoritesOnly bool `json:"favorites" form:"favorites"`
}

type FlashcardListResponse struct {
	Flashcards []DbFlashcard `json:"flashcards"`
	Meta       *Meta         `json:"meta"`
}

// FlashcardUpdates 卡片更新字段
type FlashcardUpdates struct {
	Front        *string
	Back         *string
	IsFavorite   *bool
	EditedByUser *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u FlashcardUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Front != nil {
		updates["front"] = *u.Front
	}
	if u.Back != nil {
		updates["back"] = *u.Back
	}
	if u.IsFavorite != nil {
		updates["is_favorite"] = *u.IsFavorite
	}
	if u.EditedByUser != nil {
		updates["edited_by_user"] = *u.EditedByUser
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u FlashcardUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
