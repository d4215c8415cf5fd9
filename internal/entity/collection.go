package entity

import "time"

// DbCollection 表示用户的卡片集合（一组主题）。
type DbCollection struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	Name        string `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

// TableName 指定表名
func (DbCollection) TableName() string {
	return "collections"
}

type CollectionCreateRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
}

type CollectionUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CollectionUpdates 集合更新字段
type CollectionUpdates struct {
	Name        *string
	Description *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u CollectionUpdates) ToMap() map[string]interface{} {
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
func (u CollectionUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
