package sql

import (
	"flashcard/internal/entity"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// normalisePage 规范化分页参数，返回 offset 与 limit
func normalisePage(params entity.BaseParams) (int, int) {
	page := int(params.Page)
	pageSize := int(params.PageSize)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return offset, pageSize
}
