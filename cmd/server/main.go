package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"flashcard/internal/api"
	"flashcard/internal/config"
	"flashcard/internal/llm"
	"flashcard/internal/model"
	"flashcard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	completion, err := llm.NewService(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise completion service")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, completion)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)
	authGroup.POST("/password", httpHandler.AuthMiddleware(), httpHandler.ChangePassword)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())

	protected.GET("/collections", httpHandler.ListCollections)
	protected.POST("/collections", httpHandler.CreateCollection)
	protected.GET("/collections/:id", httpHandler.GetCollection)
	protected.PATCH("/collections/:id", httpHandler.UpdateCollection)
	protected.DELETE("/collections/:id", httpHandler.DeleteCollection)
	protected.POST("/collections/:id/export", httpHandler.ExportCollection)

	protected.GET("/topics", httpHandler.ListTopics)
	protected.POST("/topics", httpHandler.CreateTopic)
	protected.GET("/topics/:id", httpHandler.GetTopic)
	protected.PATCH("/topics/:id", httpHandler.UpdateTopic)
	protected.DELETE("/topics/:id", httpHandler.DeleteTopic)

	protected.GET("/flashcards", httpHandler.ListFlashcards)
	protected.POST("/flashcards", httpHandler.CreateFlashcard)
	protected.GET("/flashcards/:id", httpHandler.GetFlashcard)
	protected.PATCH("/flashcards/:id", httpHandler.UpdateFlashcard)
	protected.POST("/flashcards/:id/favorite", httpHandler.ToggleFavorite)
	protected.DELETE("/flashcards/:id", httpHandler.DeleteFlashcard)

	aiGroup := protected.Group("/ai")
	aiGroup.GET("/limit", httpHandler.GetDecisionLimit)
	aiGroup.POST("/generate", httpHandler.GenerateFlashcard)
	aiGroup.POST("/accept", httpHandler.AcceptFlashcard)
	aiGroup.POST("/reject", httpHandler.RejectFlashcard)
	aiGroup.POST("/skip", httpHandler.SkipFlashcard)
	aiGroup.GET("/events", httpHandler.ListGenerationEvents)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  300 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  600 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
