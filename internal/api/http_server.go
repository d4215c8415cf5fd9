package api

import (
	"strings"
	"time"

	"flashcard/internal/auth"
	"flashcard/internal/config"
	"flashcard/internal/llm"
	"flashcard/internal/model"
	"flashcard/internal/service"
	"flashcard/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager

	// 服务层
	generationService *service.GenerationService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, completion llm.CompletionService) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		generationService: service.NewGenerationService(repo, completion, cfg),
	}

	return handler, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
