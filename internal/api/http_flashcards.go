package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flashcard/internal/entity"
	"flashcard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateFlashcard 手工创建一张卡片，来源固定为 manual。
func (h *HTTPHandler) CreateFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.FlashcardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	front := service.TruncateFront(req.Front)
	back := service.TruncateBack(req.Back)
	if front == "" || back == "" {
		BadRequest(c, ErrCodeInvalidRequest, "front and back are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetTopic(ctx, user.ID, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", req.TopicID).Error("failed to load topic")
		InternalError(c, "failed to create flashcard")
		return
	}

	card := &entity.DbFlashcard{
		UserID:  user.ID,
		TopicID: req.TopicID,
		Front:   front,
		Back:    back,
		Source:  entity.FlashcardSourceManual,
	}
	if err := h.repo.CreateFlashcard(ctx, card); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to create flashcard")
		InternalError(c, "failed to create flashcard")
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *HTTPHandler) ListFlashcards(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var params entity.FlashcardQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cards, meta, err := h.repo.ListFlashcards(ctx, user.ID, &params)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list flashcards")
		InternalError(c, "failed to load flashcards")
		return
	}

	c.JSON(http.StatusOK, entity.FlashcardListResponse{Flashcards: cards, Meta: meta})
}

func (h *HTTPHandler) GetFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	card, err := h.repo.GetFlashcard(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeFlashcardNotFound, "flashcard not found")
			return
		}
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to load flashcard")
		InternalError(c, "failed to load flashcard")
		return
	}

	c.JSON(http.StatusOK, card)
}

// UpdateFlashcard 更新卡片正反面。任一面被修改时置位 edited_by_user。
func (h *HTTPHandler) UpdateFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.FlashcardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.FlashcardUpdates{}
	if req.Front != nil {
		front := service.TruncateFront(*req.Front)
		if front == "" {
			BadRequest(c, ErrCodeInvalidRequest, "front must not be blank")
			return
		}
		updates.Front = &front
	}
	if req.Back != nil {
		back := service.TruncateBack(*req.Back)
		if back == "" {
			BadRequest(c, ErrCodeInvalidRequest, "back must not be blank")
			return
		}
		updates.Back = &back
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}

	edited := true
	updates.EditedByUser = &edited

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateFlashcard(ctx, user.ID, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeFlashcardNotFound, "flashcard not found")
			return
		}
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to update flashcard")
		InternalError(c, "failed to update flashcard")
		return
	}

	card, err := h.repo.GetFlashcard(ctx, user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to reload flashcard")
		InternalError(c, "failed to load flashcard")
		return
	}

	c.JSON(http.StatusOK, card)
}

// ToggleFavorite 反转卡片的收藏标记。
func (h *HTTPHandler) ToggleFavorite(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	card, err := h.repo.GetFlashcard(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeFlashcardNotFound, "flashcard not found")
			return
		}
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to load flashcard")
		InternalError(c, "failed to update favorite")
		return
	}

	favorite := !card.IsFavorite
	if err := h.repo.UpdateFlashcard(ctx, user.ID, id, entity.FlashcardUpdates{IsFavorite: &favorite}); err != nil {
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to toggle favorite")
		InternalError(c, "failed to update favorite")
		return
	}

	card.IsFavorite = favorite
	c.JSON(http.StatusOK, card)
}

func (h *HTTPHandler) DeleteFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteFlashcard(ctx, user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeFlashcardNotFound, "flashcard not found")
			return
		}
		logrus.WithError(err).WithField("flashcard_id", id).Error("failed to delete flashcard")
		InternalError(c, "failed to delete flashcard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
