package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"flashcard/internal/entity"
	"flashcard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetDecisionLimit 返回当日剩余决定次数与重置时间。
func (h *HTTPHandler) GetDecisionLimit(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit, err := h.generationService.DecisionLimit(ctx, user.ID, time.Now())
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to compute decision limit")
		InternalError(c, "failed to load quota")
		return
	}

	c.JSON(http.StatusOK, limit)
}

// GenerateFlashcard 为主题生成一张候选卡片。生成本身不消耗额度，
// 但额度用尽时拒绝发起新的生成。
func (h *HTTPHandler) GenerateFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	topic, err := h.repo.GetTopic(ctx, user.ID, req.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", req.TopicID).Error("failed to load topic")
		InternalError(c, "failed to generate flashcard")
		return
	}

	limit, err := h.generationService.DecisionLimit(ctx, user.ID, time.Now())
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to compute decision limit")
		InternalError(c, "failed to load quota")
		return
	}
	if limit.Remaining <= 0 {
		QuotaExhausted(c, gin.H{"limit": limit})
		return
	}

	proposal, err := h.generationService.GenerateProposal(ctx, user.ID, topic)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  user.ID,
			"topic_id": topic.ID,
		}).Error("flashcard generation failed")
		// failed 事件尽力记录，不占额度。失败返回值携带本次尝试的
		// 领域标签，随机主题的 failed 事件不会丢失标签。
		h.generationService.RecordFailure(ctx, service.Decision{
			UserID:            user.ID,
			TopicID:           topic.ID,
			IsRandom:          topic.IsRandom,
			RandomDomainLabel: proposalDomainLabel(proposal),
		})
		AIUnavailable(c, "flashcard generation failed")
		return
	}

	c.JSON(http.StatusOK, entity.GenerateResponse{
		Proposal:          entity.ProposalPayload{Front: proposal.Front, Back: proposal.Back},
		Limit:             limit,
		IsRandom:          proposal.IsRandom,
		RandomDomainLabel: proposal.RandomDomainLabel,
	})
}

// AcceptFlashcard 采纳候选卡片：落库一张卡片和一条 accepted 事件。
// is_random 与 random_domain_label 由客户端回传后原样入账。
func (h *HTTPHandler) AcceptFlashcard(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(req.Front) == "" || strings.TrimSpace(req.Back) == "" {
		BadRequest(c, ErrCodeInvalidRequest, "front and back are required")
		return
	}

	// 目录之外的标签不入账
	if req.RandomDomainLabel != "" && !service.IsKnownDomainLabel(req.RandomDomainLabel) {
		req.RandomDomainLabel = ""
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.repo.GetTopic(ctx, user.ID, req.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", req.TopicID).Error("failed to load topic")
		InternalError(c, "failed to accept flashcard")
		return
	}

	resp, err := h.generationService.AcceptProposal(ctx, user.ID, req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  user.ID,
			"topic_id": req.TopicID,
		}).Error("failed to accept flashcard")
		InternalError(c, "failed to accept flashcard")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RejectFlashcard 拒绝候选卡片，只记一条 rejected 事件。
func (h *HTTPHandler) RejectFlashcard(c *gin.Context) {
	h.recordDecision(c, entity.GenerationStatusRejected)
}

// SkipFlashcard 跳过候选卡片，只记一条 skipped 事件。
func (h *HTTPHandler) SkipFlashcard(c *gin.Context) {
	h.recordDecision(c, entity.GenerationStatusSkipped)
}

// recordDecision reject/skip 的公共路径。额度用尽时拒绝，
// is_random 从持久化的主题重新推导，不信任客户端。
func (h *HTTPHandler) recordDecision(c *gin.Context, status string) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	topic, err := h.repo.GetTopic(ctx, user.ID, req.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTopicNotFound, "topic not found")
			return
		}
		logrus.WithError(err).WithField("topic_id", req.TopicID).Error("failed to load topic")
		InternalError(c, "failed to record decision")
		return
	}

	limit, err := h.generationService.DecisionLimit(ctx, user.ID, time.Now())
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to compute decision limit")
		InternalError(c, "failed to load quota")
		return
	}
	if limit.Remaining <= 0 {
		QuotaExhausted(c, gin.H{"limit": limit})
		return
	}

	domainLabel := ""
	if topic.IsRandom && service.IsKnownDomainLabel(req.RandomDomainLabel) {
		domainLabel = req.RandomDomainLabel
	}

	eventID, err := h.generationService.RecordDecision(ctx, service.Decision{
		UserID:            user.ID,
		TopicID:           topic.ID,
		Status:            status,
		IsRandom:          topic.IsRandom,
		RandomDomainLabel: domainLabel,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  user.ID,
			"topic_id": topic.ID,
			"status":   status,
		}).Error("failed to record decision")
		InternalError(c, "failed to record decision")
		return
	}

	c.JSON(http.StatusCreated, entity.DecisionResponse{EventID: eventID})
}

// ListGenerationEvents 分页列出当前用户的生成事件。
func (h *HTTPHandler) ListGenerationEvents(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var params entity.GenerationEventQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	params.UserID = user.ID
	params.Status = strings.ToLower(strings.TrimSpace(params.Status))

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	events, meta, err := h.repo.ListGenerationEvents(ctx, &params)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list generation events")
		InternalError(c, "failed to load generation events")
		return
	}

	if meta == nil {
		meta = &entity.Meta{Page: params.Page, PageSize: params.PageSize, Total: int64(len(events))}
	}

	c.JSON(http.StatusOK, entity.GenerationEventListResponse{Events: events, Meta: meta})
}

func proposalDomainLabel(proposal *service.Proposal) string {
	if proposal == nil {
		return ""
	}
	return proposal.RandomDomainLabel
}
