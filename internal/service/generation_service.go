package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flashcard/internal/config"
	"flashcard/internal/entity"
	"flashcard/internal/llm"
)

const (
	// maxGenerateAttempts 正面与近期卡片重复时的总尝试次数，第三次无条件采用
	maxGenerateAttempts = 3
	// recentFrontsLimit 防重复列表取最近多少张已采纳卡片
	recentFrontsLimit = 8

	generateTemperature = 0.9
	shortenTemperature  = 0.3
	generateMaxTokens   = 1024
	shortenMaxTokens    = 512
)

// Repository 生成服务需要的持久层子集，model.Repository 是其超集。
type Repository interface {
	CountDecisionEvents(ctx context.Context, userID uint, dayUTC string) (int64, error)
	ListRecentGeneratedFronts(ctx context.Context, userID, topicID uint, limit int) ([]string, error)
	CreateGenerationEvent(ctx context.Context, event *entity.DbGenerationEvent) error
	CreateFlashcard(ctx context.Context, card *entity.DbFlashcard) error
}

// GenerationService AI 卡片生成的业务入口：额度、提示词、防重复与事件落库。
type GenerationService struct {
	repo Repository
	ai   llm.CompletionService

	model           string
	dailyLimit      int
	generateTimeout time.Duration
	shortenTimeout  time.Duration
}

// NewGenerationService 创建生成服务
func NewGenerationService(repo Repository, ai llm.CompletionService, cfg config.Config) *GenerationService {
	return &GenerationService{
		repo:            repo,
		ai:              ai,
		model:           cfg.AIModel,
		dailyLimit:      cfg.AIDailyDecisionLimit,
		generateTimeout: time.Duration(cfg.AIGenerateTimeoutSeconds) * time.Second,
		shortenTimeout:  time.Duration(cfg.AIShortenTimeoutSeconds) * time.Second,
	}
}

// Proposal 一次生成的结果与遥测信息
type Proposal struct {
	Front string
	Back  string

	IsRandom          bool
	RandomDomainLabel string

	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
}

// GenerateProposal 为指定主题生成一张候选卡片。
// 正面与近期已采纳卡片完全相同时重试，总共最多 maxGenerateAttempts 次，
// 最后一次不再检查直接采用。随机主题每次尝试重新抽取领域。
// 上游失败不重试，原样上抛；此时返回值不为 nil，携带失败那次尝试的
// IsRandom 与 RandomDomainLabel，failed 事件据此入账。
func (s *GenerationService) GenerateProposal(ctx context.Context, userID uint, topic *entity.DbTopic) (*Proposal, error) {
	// 防重复列表失败时降级为空列表，生成流程不因此中断
	avoidFronts, err := s.repo.ListRecentGeneratedFronts(ctx, userID, topic.ID, recentFrontsLimit)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"topic_id": topic.ID,
		}).Warn("list recent fronts failed, generating without avoid list")
		avoidFronts = nil
	}

	seen := make(map[string]struct{}, len(avoidFronts))
	for _, front := range avoidFronts {
		seen[strings.TrimSpace(front)] = struct{}{}
	}

	var proposal *Proposal
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		title := topic.Name
		description := topic.Description
		domainLabel := ""
		if topic.IsRandom {
			domain := PickRandomDomain()
			domainLabel = domain.Label
			title = domain.Title
			description = domain.Description
		}

		proposal, err = s.generateOnce(ctx, title, description, avoidFronts)
		if err != nil {
			return &Proposal{IsRandom: topic.IsRandom, RandomDomainLabel: domainLabel}, err
		}
		proposal.IsRandom = topic.IsRandom
		proposal.RandomDomainLabel = domainLabel

		if _, dup := seen[proposal.Front]; !dup || attempt == maxGenerateAttempts {
			break
		}
		logrus.WithFields(logrus.Fields{
			"topic_id": topic.ID,
			"attempt":  attempt,
		}).Info("duplicate front, retrying generation")
	}

	return proposal, nil
}

// generateOnce 单次生成：调用上游、抽取 JSON、截断正反面。
func (s *GenerationService) generateOnce(ctx context.Context, title, description string, avoidFronts []string) (*Proposal, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	started := time.Now()
	resp, err := s.ai.Complete(callCtx, llm.CompletionRequest{
		Model:       s.model,
		System:      buildSystemPrompt(),
		User:        buildUserPrompt(title, description, avoidFronts, uuid.NewString()),
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate completion: %w", err)
	}
	latency := time.Since(started).Milliseconds()

	payload, err := parseProposalPayload(resp.Text)
	if err != nil {
		return nil, err
	}

	front := TruncateFront(payload.Front)
	back := s.fitBack(ctx, payload.Back)
	if front == "" || back == "" {
		return nil, fmt.Errorf("provider returned blank card content")
	}

	return &Proposal{
		Front:            front,
		Back:             back,
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		LatencyMS:        latency,
	}, nil
}

// parseProposalPayload 从模型输出中抽取 {"front","back"} 对象。
func parseProposalPayload(text string) (*entity.ProposalPayload, error) {
	raw, ok := llm.ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in completion")
	}
	var payload entity.ProposalPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode card payload: %w", err)
	}
	if strings.TrimSpace(payload.Front) == "" || strings.TrimSpace(payload.Back) == "" {
		return nil, fmt.Errorf("card payload missing front or back")
	}
	return &payload, nil
}

// fitBack 让背面文本符合长度上限：先请求上游压缩一次，
// 压缩失败或仍超长时回退到边界截断。
func (s *GenerationService) fitBack(ctx context.Context, back string) string {
	trimmed := strings.TrimSpace(back)
	if len([]rune(trimmed)) <= entity.FlashcardBackMaxLen {
		return trimmed
	}

	shortened, err := s.shortenBack(ctx, trimmed)
	if err != nil {
		logrus.WithError(err).Warn("shorten call failed, truncating back text")
		return TruncateBack(trimmed)
	}
	if len([]rune(shortened)) > entity.FlashcardBackMaxLen {
		return TruncateBack(shortened)
	}
	return shortened
}

func (s *GenerationService) shortenBack(ctx context.Context, back string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.shortenTimeout)
	defer cancel()

	resp, err := s.ai.Complete(callCtx, llm.CompletionRequest{
		Model:       s.model,
		User:        buildShortenPrompt(back, entity.FlashcardBackMaxLen),
		Temperature: shortenTemperature,
		MaxTokens:   shortenMaxTokens,
	})
	if err != nil {
		return "", err
	}
	shortened := strings.TrimSpace(resp.Text)
	if shortened == "" {
		return "", llm.ErrEmptyCompletion
	}
	return shortened, nil
}

// Decision 一次 accept/reject/skip 决定的事件参数
type Decision struct {
	UserID            uint
	TopicID           uint
	Status            string
	IsRandom          bool
	RandomDomainLabel string

	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
}

// RecordDecision 写入一条决定事件并返回事件 ID。DayUTC 以写入时刻推导。
func (s *GenerationService) RecordDecision(ctx context.Context, d Decision) (uint, error) {
	event := s.buildEvent(d)
	if err := s.repo.CreateGenerationEvent(ctx, event); err != nil {
		return 0, fmt.Errorf("create generation event: %w", err)
	}
	return event.ID, nil
}

// RecordFailure 尽力记录一条 failed 事件。failed 不占额度，
// 落库失败只打日志，不影响调用方返回上游错误。
func (s *GenerationService) RecordFailure(ctx context.Context, d Decision) {
	d.Status = entity.GenerationStatusFailed
	if err := s.repo.CreateGenerationEvent(ctx, s.buildEvent(d)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  d.UserID,
			"topic_id": d.TopicID,
		}).Warn("record failed generation event")
	}
}

// AcceptProposal 采纳候选卡片：恰好创建一张 source=auto_generated 的卡片
// 和一条 accepted 事件。卡片创建失败时不写事件，额度不受影响。
func (s *GenerationService) AcceptProposal(ctx context.Context, userID uint, req entity.AcceptRequest) (*entity.AcceptResponse, error) {
	card := &entity.DbFlashcard{
		UserID:  userID,
		TopicID: req.TopicID,
		Front:   TruncateFront(req.Front),
		Back:    TruncateBack(req.Back),
		Source:  entity.FlashcardSourceAutoGenerated,
	}
	if err := s.repo.CreateFlashcard(ctx, card); err != nil {
		return nil, fmt.Errorf("create flashcard: %w", err)
	}

	eventID, err := s.RecordDecision(ctx, Decision{
		UserID:            userID,
		TopicID:           req.TopicID,
		Status:            entity.GenerationStatusAccepted,
		IsRandom:          req.IsRandom,
		RandomDomainLabel: req.RandomDomainLabel,
	})
	if err != nil {
		return nil, err
	}

	return &entity.AcceptResponse{FlashcardID: card.ID, EventID: eventID}, nil
}

func (s *GenerationService) buildEvent(d Decision) *entity.DbGenerationEvent {
	event := &entity.DbGenerationEvent{
		UserID:           d.UserID,
		Status:           d.Status,
		IsRandom:         d.IsRandom,
		DayUTC:           DayUTC(time.Now()),
		Model:            d.Model,
		PromptTokens:     d.PromptTokens,
		CompletionTokens: d.CompletionTokens,
		LatencyMS:        d.LatencyMS,
	}
	if d.TopicID != 0 {
		topicID := d.TopicID
		event.TopicID = &topicID
	}
	if d.IsRandom && d.RandomDomainLabel != "" {
		label := d.RandomDomainLabel
		event.RandomDomainLabel = &label
	}
	return event
}
