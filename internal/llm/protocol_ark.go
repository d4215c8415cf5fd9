package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	volcModel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
)

// Ark 通过火山引擎方舟（Ark）runtime 调用豆包系列文本模型。
// 文档: https://www.volcengine.com/docs/82379/1298454
type Ark struct {
	client *arkruntime.Client
}

// NewArk 创建 Ark 协议客户端。
func NewArk(apiKey string) (*Ark, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ark api key is not configured")
	}
	return &Ark{client: arkruntime.NewClientWithApiKey(apiKey)}, nil
}

// Complete 发起一次非流式 chat completion 调用。
func (s *Ark) Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	logger := providerLogger(ctx, ProviderDriverArk, request.Model)
	logger.WithField("prompt_length", len(request.User)).Info("llm_complete_start")

	messages := make([]*volcModel.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(request.System) != "" {
		messages = append(messages, &volcModel.ChatCompletionMessage{
			Role: volcModel.ChatMessageRoleSystem,
			Content: &volcModel.ChatCompletionMessageContent{
				StringValue: volcengine.String(request.System),
			},
		})
	}
	messages = append(messages, &volcModel.ChatCompletionMessage{
		Role: volcModel.ChatMessageRoleUser,
		Content: &volcModel.ChatCompletionMessageContent{
			StringValue: volcengine.String(request.User),
		},
	})

	chatReq := volcModel.CreateChatCompletionRequest{
		Model:    request.Model,
		Messages: messages,
	}
	if request.Temperature > 0 {
		chatReq.Temperature = volcengine.Float32(request.Temperature)
	}
	if request.MaxTokens > 0 {
		chatReq.MaxTokens = volcengine.Int(request.MaxTokens)
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logger.WithError(err).Error("llm_complete_upstream_error")
		return nil, fmt.Errorf("ark chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil ||
		resp.Choices[0].Message.Content.StringValue == nil {
		return nil, ErrEmptyCompletion
	}
	text := strings.TrimSpace(*resp.Choices[0].Message.Content.StringValue)
	if text == "" {
		return nil, ErrEmptyCompletion
	}

	model := resp.Model
	if model == "" {
		model = request.Model
	}

	logger.WithFields(logrus.Fields{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Info("llm_complete_done")

	return &CompletionResponse{
		Text:             text,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

var _ CompletionService = (*Ark)(nil)
