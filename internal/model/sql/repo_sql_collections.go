package sql

import (
	"context"
	"fmt"

	"flashcard/internal/entity"

	"gorm.io/gorm"
)

// CreateCollection inserts a new collection owned by the user on the struct.
func (r *GormRepository) CreateCollection(ctx context.Context, collection *entity.DbCollection) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if collection == nil {
		return fmt.Errorf("collection is nil")
	}
	if collection.UserID == 0 {
		return fmt.Errorf("collection owner is required")
	}
	return r.db.WithContext(ctx).Create(collection).Error
}

// ListCollections returns all collections owned by the user, newest first.
func (r *GormRepository) ListCollections(ctx context.Context, userID uint) ([]entity.DbCollection, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var collections []entity.DbCollection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// GetCollection loads a collection scoped to its owner. Rows belonging to other
// users surface as gorm.ErrRecordNotFound.
func (r *GormRepository) GetCollection(ctx context.Context, userID, id uint) (*entity.DbCollection, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var collection entity.DbCollection
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// UpdateCollection applies partial updates to an owned collection.
func (r *GormRepository) UpdateCollection(ctx context.Context, userID, id uint, updates entity.CollectionUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if updates.IsEmpty() {
		return fmt.Errorf("no updates provided")
	}
	tx := r.db.WithContext(ctx).
		Model(&entity.DbCollection{}).
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

// DeleteCollection removes an owned collection together with its topics and cards.
func (r *GormRepository) DeleteCollection(ctx context.Context, userID, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topicIDs []uint
		if err := tx.Model(&entity.DbTopic{}).
			Where("collection_id = ? AND user_id = ?", id, userID).
			Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		if len(topicIDs) > 0 {
			if err := tx.Where("topic_id IN ? AND user_id = ?", topicIDs, userID).
				Delete(&entity.DbFlashcard{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", topicIDs).Delete(&entity.DbTopic{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.DbCollection{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
