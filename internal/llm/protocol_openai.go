package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type oaMessage struct {
	Role    string `json:"role"` // "system" | "user"
	Content string `json:"content"`
}

type oaRequest struct {
	Model       string      `json:"model"`
	Messages    []oaMessage `json:"messages"`
	Temperature float32     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

type oaChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type oaUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type oaResponse struct {
	Model   string     `json:"model"`
	Choices []oaChoice `json:"choices"`
	Usage   oaUsage    `json:"usage"`
}

// OpenAICompatible 通过 OpenAI 兼容的 chat completions 协议调用上游
// （OpenRouter 或任何兼容端点）。
type OpenAICompatible struct {
	apiKey  string
	baseURL string
	driver  string
	httpCli *http.Client
}

// NewOpenAICompatible 创建 OpenAI 兼容协议客户端。超时完全由调用方的
// context 控制，客户端本身不设超时。
func NewOpenAICompatible(apiKey, baseURL, driver string) (*OpenAICompatible, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("AI api key is not configured")
	}
	trimmedURL := strings.TrimSpace(baseURL)
	if trimmedURL == "" {
		return nil, errors.New("AI base url is not configured")
	}
	if strings.TrimSpace(driver) == "" {
		driver = ProviderDriverOpenRouter
	}
	return &OpenAICompatible{
		apiKey:  apiKey,
		baseURL: trimmedURL,
		driver:  driver,
		httpCli: &http.Client{Timeout: 0},
	}, nil
}

// Complete 发起一次非流式补全调用。请求带禁用缓存的头，配合 prompt 内的
// 随机 nonce 绕过上游的响应缓存层。
func (s *OpenAICompatible) Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	logger := providerLogger(ctx, s.driver, request.Model)
	logger.WithField("prompt_length", len(request.User)).Info("llm_complete_start")

	messages := make([]oaMessage, 0, 2)
	if strings.TrimSpace(request.System) != "" {
		messages = append(messages, oaMessage{Role: "system", Content: request.System})
	}
	messages = append(messages, oaMessage{Role: "user", Content: request.User})

	body, err := json.Marshal(oaRequest{
		Model:       request.Model,
		Messages:    messages,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpCli.Do(req)
	if err != nil {
		logger.WithError(err).Error("llm_complete_transport_error")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   truncateForLog(string(raw)),
		}).Error("llm_complete_upstream_error")
		return nil, fmt.Errorf("%s http %d: %s", s.driver, resp.StatusCode, truncateForLog(string(raw)))
	}

	var parsed oaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, ErrEmptyCompletion
	}

	model := parsed.Model
	if model == "" {
		model = request.Model
	}

	logger.WithFields(logrus.Fields{
		"prompt_tokens":     parsed.Usage.PromptTokens,
		"completion_tokens": parsed.Usage.CompletionTokens,
	}).Info("llm_complete_done")

	return &CompletionResponse{
		Text:             text,
		Model:            model,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}, nil
}

var _ CompletionService = (*OpenAICompatible)(nil)
