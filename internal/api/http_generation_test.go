package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"flashcard/internal/config"
	"flashcard/internal/entity"
	"flashcard/internal/model"
	"flashcard/internal/service"
)

// quotaStubRepo 只实现额度路径会触达的方法，其余方法沿用嵌入接口。
type quotaStubRepo struct {
	model.Repository

	topic         *entity.DbTopic
	decisionCount int64
}

func (s *quotaStubRepo) GetTopic(_ context.Context, userID, id uint) (*entity.DbTopic, error) {
	if s.topic == nil || s.topic.UserID != userID || s.topic.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.topic, nil
}

func (s *quotaStubRepo) CountDecisionEvents(_ context.Context, _ uint, _ string) (int64, error) {
	return s.decisionCount, nil
}

func (s *quotaStubRepo) ListRecentGeneratedFronts(_ context.Context, _, _ uint, _ int) ([]string, error) {
	return nil, nil
}

func (s *quotaStubRepo) CreateGenerationEvent(_ context.Context, _ *entity.DbGenerationEvent) error {
	return nil
}

func (s *quotaStubRepo) CreateFlashcard(_ context.Context, _ *entity.DbFlashcard) error {
	return nil
}

func newQuotaTestHandler(repo *quotaStubRepo, dailyLimit int) *HTTPHandler {
	cfg := config.Config{
		AIDailyDecisionLimit:     dailyLimit,
		AIGenerateTimeoutSeconds: 1,
		AIShortenTimeoutSeconds:  1,
	}
	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		generationService: service.NewGenerationService(repo, nil, cfg),
	}
}

// performAuthed 以已认证用户身份发起请求，绕过 JWT 中间件
func performAuthed(handler gin.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		c.Set(currentUserContextKey, &RequestUser{ID: 1, Email: "tester@example.com", Role: entity.UserRoleUser})
		handler(c)
	})

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// quotaErrorBody 429 响应体，details 中嵌套 limit 负载
type quotaErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		Limit struct {
			Remaining  int       `json:"remaining"`
			ResetAtUTC time.Time `json:"reset_at_utc"`
		} `json:"limit"`
	} `json:"details"`
}

func decodeQuotaError(t *testing.T, w *httptest.ResponseRecorder) quotaErrorBody {
	t.Helper()
	var body quotaErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应体失败: %v", err)
	}
	return body
}

func TestGenerateFlashcardQuotaExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 当日已有 5 条决定事件，额度 5，生成应被拒绝
	repo := &quotaStubRepo{
		topic:         &entity.DbTopic{ID: 7, UserID: 1, Name: "Photosynthesis"},
		decisionCount: 5,
	}
	h := newQuotaTestHandler(repo, 5)

	w := performAuthed(h.GenerateFlashcard, http.MethodPost, "/api/ai/generate", `{"topic_id": 7}`)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("状态码 = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	body := decodeQuotaError(t, w)
	if body.Code != ErrCodeQuotaExhausted {
		t.Errorf("错误码 = %q, want %q", body.Code, ErrCodeQuotaExhausted)
	}
	if body.Details.Limit.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", body.Details.Limit.Remaining)
	}
	if !body.Details.Limit.ResetAtUTC.After(time.Now()) {
		t.Errorf("reset_at_utc = %v, 应晚于当前时刻", body.Details.Limit.ResetAtUTC)
	}
}

func TestRecordDecisionQuotaExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		handler func(h *HTTPHandler) gin.HandlerFunc
		path    string
	}{
		{
			name:    "Reject",
			handler: func(h *HTTPHandler) gin.HandlerFunc { return h.RejectFlashcard },
			path:    "/api/ai/reject",
		},
		{
			name:    "Skip",
			handler: func(h *HTTPHandler) gin.HandlerFunc { return h.SkipFlashcard },
			path:    "/api/ai/skip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &quotaStubRepo{
				topic:         &entity.DbTopic{ID: 7, UserID: 1, Name: "Photosynthesis"},
				decisionCount: 5,
			}
			h := newQuotaTestHandler(repo, 5)

			w := performAuthed(tt.handler(h), http.MethodPost, tt.path, `{"topic_id": 7}`)

			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("状态码 = %d, want %d", w.Code, http.StatusTooManyRequests)
			}
			body := decodeQuotaError(t, w)
			if body.Code != ErrCodeQuotaExhausted {
				t.Errorf("错误码 = %q, want %q", body.Code, ErrCodeQuotaExhausted)
			}
			if body.Details.Limit.Remaining != 0 {
				t.Errorf("remaining = %d, want 0", body.Details.Limit.Remaining)
			}
		})
	}
}

func TestRecordDecisionUnderQuotaSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &quotaStubRepo{
		topic:         &entity.DbTopic{ID: 7, UserID: 1, Name: "Photosynthesis"},
		decisionCount: 4,
	}
	h := newQuotaTestHandler(repo, 5)

	w := performAuthed(h.RejectFlashcard, http.MethodPost, "/api/ai/reject", `{"topic_id": 7}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("状态码 = %d, want %d", w.Code, http.StatusCreated)
	}
}
