package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flashcard/internal/entity"
	"flashcard/internal/service"
	"flashcard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExportCollection 把集合下的全部卡片渲染成 JSON 或 CSV 文件并写入存储后端。
func (h *HTTPHandler) ExportCollection(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = entity.ExportFormatJSON
	}
	if format != entity.ExportFormatJSON && format != entity.ExportFormatCSV {
		BadRequest(c, ErrCodeInvalidRequest, "format must be json or csv")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	collection, err := h.repo.GetCollection(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCollectionNotFound, "collection not found")
			return
		}
		logrus.WithError(err).WithField("collection_id", id).Error("failed to load collection")
		InternalError(c, "failed to export collection")
		return
	}

	cards, err := h.repo.ListFlashcardsByCollection(ctx, user.ID, id)
	if err != nil {
		logrus.WithError(err).WithField("collection_id", id).Error("failed to load flashcards for export")
		InternalError(c, "failed to export collection")
		return
	}

	data, ext, err := service.RenderExport(collection.Name, cards, format)
	if err != nil {
		logrus.WithError(err).WithField("collection_id", id).Error("failed to render export")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeExportFailed, "failed to render export")
		return
	}

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "exports",
		Extension: ext,
		BaseName:  fmt.Sprintf("collection-%d-%s", collection.ID, uuid.NewString()),
	})
	if err != nil {
		logrus.WithError(err).WithField("collection_id", id).Error("failed to store export file")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeExportFailed, "failed to store export file")
		return
	}

	c.JSON(http.StatusCreated, entity.ExportResponse{
		Format:    format,
		Path:      path,
		URL:       h.publicURL(path),
		CardCount: len(cards),
	})
}

// publicURL 把存储键转换为导出文件的下载地址。远端后端返回的
// 绝对 URL 原样透传，本地存储的相对路径挂到公共基础路径下。
func (h *HTTPHandler) publicURL(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/files"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(trimmed, "/"))
}
