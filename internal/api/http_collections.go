package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"flashcard/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) CreateCollection(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CollectionCreateRequest
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

	collection := &entity.DbCollection{
		UserID:      user.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.repo.CreateCollection(ctx, collection); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to create collection")
		InternalError(c, "failed to create collection")
		return
	}

	c.JSON(http.StatusCreated, collection)
}

func (h *HTTPHandler) ListCollections(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collections, err := h.repo.ListCollections(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list collections")
		InternalError(c, "failed to load collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *HTTPHandler) GetCollection(c *gin.Context) {
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

	collection, err := h.repo.GetCollection(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCollectionNotFound, "collection not found")
			return
		}
		logrus.WithError(err).WithField("collection_id", id).Error("failed to load collection")
		InternalError(c, "failed to load collection")
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *HTTPHandler) UpdateCollection(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.CollectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.CollectionUpdates{
		Name:        trimmedStringPtr(req.Name),
		Description: trimmedStringPtr(req.Description),
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateCollection(ctx, user.ID, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCollectionNotFound, "collection not found")
			return
		}
		logrus.WithError(err).WithField("collection_id", id).Error("failed to update collection")
		InternalError(c, "failed to update collection")
		return
	}

	collection, err := h.repo.GetCollection(ctx, user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("collection_id", id).Error("failed to reload collection")
		InternalError(c, "failed to load collection")
		return
	}

	c.JSON(http.StatusOK, collection)
}

// DeleteCollection 删除集合及其下全部主题与卡片。
func (h *HTTPHandler) DeleteCollection(c *gin.Context) {
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

	if err := h.repo.DeleteCollection(ctx, user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCollectionNotFound, "collection not found")
			return
		}
		logrus.WithError(err).WithField("collection_id", id).Error("failed to delete collection")
		InternalError(c, "failed to delete collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// parseIDParam 解析路径中的 :id 参数，非法时直接写出 400。
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(parsed), true
}

// trimmedStringPtr 去掉首尾空白；nil 原样返回表示未提供该字段。
func trimmedStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
