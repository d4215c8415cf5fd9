package sql

import (
	"context"
	"fmt"

	"flashcard/internal/entity"

	"gorm.io/gorm"
)

// CreateFlashcard inserts a new flashcard row.
func (r *GormRepository) CreateFlashcard(ctx context.Context, card *entity.DbFlashcard) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if card == nil {
		return fmt.Errorf("flashcard is nil")
	}
	if card.UserID == 0 || card.TopicID == 0 {
		return fmt.Errorf("flashcard owner and topic are required")
	}
	return r.db.WithContext(ctx).Create(card).Error
}

// ListFlashcards retrieves paginated flashcards owned by the user.
func (r *GormRepository) ListFlashcards(ctx context.Context, userID uint, params *entity.FlashcardQuery) ([]entity.DbFlashcard, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbFlashcard{}).
		Where("user_id = ?", userID)
	if params != nil {
		if params.TopicID > 0 {
			query = query.Where("topic_id = ?", params.TopicID)
		}
		if params.FavoritesOnly {
			query = query.Where("is_favorite = ?", true)
		}
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

	var cards []entity.DbFlashcard
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&cards).Error; err != nil {
		return nil, nil, err
	}

	return cards, r.calculatePagination(totalCount, offset/pageSize+1, pageSize), nil
}

// GetFlashcard loads a flashcard scoped to its owner.
func (r *GormRepository) GetFlashcard(ctx context.Context, userID, id uint) (*entity.DbFlashcard, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var card entity.DbFlashcard
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateFlashcard applies partial updates to an owned flashcard.
func (r *GormRepository) UpdateFlashcard(ctx context.Context, userID, id uint, updates entity.FlashcardUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if updates.IsEmpty() {
		return fmt.Errorf("no updates provided")
	}
	tx := r.db.WithContext(ctx).
		Model(&entity.DbFlashcard{}).
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

// DeleteFlashcard removes an owned flashcard.
func (r *GormRepository) DeleteFlashcard(ctx context.Context, userID, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.DbFlashcard{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFlashcardsByCollection 返回集合下全部卡片，按创建时间升序，用于导出。
func (r *GormRepository) ListFlashcardsByCollection(ctx context.Context, userID, collectionID uint) ([]entity.DbFlashcard, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var cards []entity.DbFlashcard
	err := r.db.WithContext(ctx).
		Joins("JOIN topics ON topics.id = flashcards.topic_id").
		Where("topics.collection_id = ? AND flashcards.user_id = ?", collectionID, userID).
		Order("flashcards.created_at ASC, flashcards.id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ListRecentGeneratedFronts 返回某主题下最近采纳的 AI 卡片正面，按创建时间倒序。
func (r *GormRepository) ListRecentGeneratedFronts(ctx context.Context, userID, topicID uint, limit int) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if limit <= 0 {
		limit = 8
	}
	var fronts []string
	err := r.db.WithContext(ctx).
		Model(&entity.DbFlashcard{}).
		Where("user_id = ? AND topic_id = ? AND source = ?", userID, topicID, entity.FlashcardSourceAutoGenerated).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Pluck("front", &fronts).Error
	if err != nil {
		return nil, err
	}
	return fronts, nil
}
