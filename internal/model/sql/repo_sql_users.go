package sql

import (
	"context"
	"fmt"
	"strings"

	"flashcard/internal/entity"
)

// CreateUser inserts a new user row.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser updates a user with the provided fields.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	if updates.IsEmpty() {
		return fmt.Errorf("no updates provided")
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetUserByEmail loads a user by normalised email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	normalised := strings.ToLower(strings.TrimSpace(email))
	if normalised == "" {
		return nil, fmt.Errorf("email is empty")
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("email = ?", normalised).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by primary key.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
