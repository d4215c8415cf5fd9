package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"flashcard/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) CreateTopic(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// 集合必须属于当前用户
	if _, err := h.repo.GetCollection(ctx, user.ID, req.CollectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCollectionNotFound, "collection not found")
			return
		}
		logrus.WithError(err).WithField("collection_id", req.CollectionID).Error("failed to load collection")
		InternalError(c, "failed to create topic")
		return
	}

	topic := &entity.DbTopic{
		UserID:       user.ID,
		CollectionID: req.CollectionID,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		IsRandom:     req.IsRandom,
	}
	if err := h.repo.CreateTopic(ctx, topic); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to create topic")
		InternalError(c, "failed to create topic")
		return
	}

	c.JSON(http.StatusCreated, topic)
}

func (h *HTTPHandler) ListTopics(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var params entity.TopicQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	topics, meta, err := h.repo.ListTopics(ctx, user.ID, &params)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list topics")
		InternalError(c, "failed to load topics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics, "meta": meta})
}

func (h *HTTPHandler) GetTopic(c *gin.Context) {
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

	topic, err := h.repo.GetTopic(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", id).Error("failed to load topic")
		InternalError(c, "failed to load topic")
		return
	}

	c.JSON(http.StatusOK, topic)
}

func (h *HTTPHandler) UpdateTopic(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.TopicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.TopicUpdates{
		Name:        trimmedStringPtr(req.Name),
		Description: trimmedStringPtr(req.Description),
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateTopic(ctx, user.ID, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", id).Error("failed to update topic")
		InternalError(c, "failed to update topic")
		return
	}

	topic, err := h.repo.GetTopic(ctx, user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("topic_id", id).Error("failed to reload topic")
		InternalError(c, "failed to load topic")
		return
	}

	c.JSON(http.StatusOK, topic)
}

// DeleteTopic 删除主题及其下全部卡片。
func (h *HTTPHandler) DeleteTopic(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.repo.DeleteTopic(ctx, user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", id).Error("failed to delete topic")
		InternalError(c, "failed to delete topic")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
