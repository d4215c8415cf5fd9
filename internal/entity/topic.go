package entity

import "time"

// DbTopic 表示集合内的一个学习主题。IsRandom 为 true 的主题是"随机领域"
// 主题：生成卡片时不使用主题自身的描述，而是每次从固定领域目录中随机抽取。
type DbTopic struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint          `gorm:"column:user_id;index;not null" json:"user_id"`
	CollectionID uint          `gorm:"column:collection_id;index;not null" json:"collection_id"`
	Collection   *DbCollection `gorm:"foreignKey:CollectionID" json:"-"`

	Name        string `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	IsRandom    bool   `gorm:"column:is_random;not null;default:false" json:"is_random"`
}

// TableName 指定表名
func (DbTopic) TableName() string {
	return "topics"
}

type TopicCreateRequest struct {
	CollectionID uint   `json:"collection_id" binding:"required"`
	Name         string `json:"name" binding:"required,max=120"`
	Description  string `json:"description"`
	IsRandom     bool   `json:"is_random"`
}

type TopicUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type TopicQuery struct {
	BaseParams
	CollectionID uint `json:"collection_id" form:"collection_id"`
}

// TopicUpdates 主题更新字段
type TopicUpdates struct {
	Name        *string
	Description *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u TopicUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u TopicUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
