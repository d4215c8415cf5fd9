package entity

import "time"

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string    `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Role         string    `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UserUpdates 用户更新字段
type UserUpdates struct {
	DisplayName  *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
