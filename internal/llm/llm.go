package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyCompletion 上游返回了空文本
var ErrEmptyCompletion = errors.New("empty completion from provider")

// CompletionRequest 一次 chat 式文本补全调用的参数。
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// CompletionResponse 上游返回的文本与可选的 token 统计。
type CompletionResponse struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// CompletionService defines the interface for text completion providers.
type CompletionService interface {
	// Complete performs one synchronous completion call. The context bounds
	// the whole request including connection setup.
	Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
}

// Validate performs basic validation on the request.
func (r CompletionRequest) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model is required")
	}
	if strings.TrimSpace(r.User) == "" {
		return errors.New("user prompt is required")
	}
	return nil
}
