package sql

import (
	"context"
	"fmt"

	"flashcard/internal/entity"

	"gorm.io/gorm"
)

// CreateTopic inserts a new topic.
func (r *GormRepository) CreateTopic(ctx context.Context, topic *entity.DbTopic) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if topic == nil {
		return fmt.Errorf("topic is nil")
	}
	if topic.UserID == 0 || topic.CollectionID == 0 {
		return fmt.Errorf("topic owner and collection are required")
	}
	return r.db.WithContext(ctx).Create(topic).Error
}

// ListTopics retrieves paginated topics owned by the user.
func (r *GormRepository) ListTopics(ctx context.Context, userID uint, params *entity.TopicQuery) ([]entity.DbTopic, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbTopic{}).
		Where("user_id = ?", userID)
	if params != nil && params.CollectionID > 0 {
		query = query.Where("collection_id = ?", params.CollectionID)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	var base entity.BaseParams
	if params != nil {
		base = params.BaseParams
	}
	offset, pageSize := normalisePage(base)

	var topics []entity.DbTopic
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&topics).Error; err != nil {
		return nil, nil, err
	}

	return topics, r.calculatePagination(totalCount, offset/pageSize+1, pageSize), nil
}

// GetTopic loads a topic scoped to its owner.
func (r *GormRepository) GetTopic(ctx context.Context, userID, id uint) (*entity.DbTopic, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var topic entity.DbTopic
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// UpdateTopic applies partial updates to an owned topic.
func (r *GormRepository) UpdateTopic(ctx context.Context, userID, id uint, updates entity.TopicUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if updates.IsEmpty() {
		return fmt.Errorf("no updates provided")
	}
	tx := r.db.WithContext(ctx).
		Model(&entity.DbTopic{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates.ToMap())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTopic removes an owned topic and its flashcards.
func (r *GormRepository) DeleteTopic(ctx context.Context, userID, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ? AND user_id = ?", id, userID).
			Delete(&entity.DbFlashcard{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.DbTopic{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
