package llm

import (
	"fmt"
	"strings"

	"flashcard/internal/config"
)

const (
	ProviderDriverOpenRouter = "openrouter"
	ProviderDriverOpenAI     = "openai"
	ProviderDriverArk        = "ark"
)

// NewService 根据配置实例化文本补全服务。
func NewService(cfg config.Config) (CompletionService, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	switch driver {
	case "", ProviderDriverOpenRouter, ProviderDriverOpenAI:
		return NewOpenAICompatible(cfg.AIAPIKey, cfg.AIBaseURL, driver)
	case ProviderDriverArk, "volcengine":
		return NewArk(cfg.AIAPIKey)
	default:
		return nil, fmt.Errorf("unsupported AI provider driver: %s", cfg.AIProvider)
	}
}
