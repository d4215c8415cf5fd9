package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"flashcard/internal/auth"
	"flashcard/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Register 开放注册，所有新用户均为普通角色。
func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		BadRequest(c, ErrCodeInvalidRequest, "email and password are required")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		InternalError(c, "failed to register user")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         entity.UserRoleUser,
		IsActive:     true,
	}

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to register user")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to create token for user")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusCreated, entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      makeUserSummary(user),
	})
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		BadRequest(c, ErrCodeInvalidRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithError(err).WithField("email", email).Warn("login attempt failed")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	if !user.IsActive {
		ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "user is disabled")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("password verification failed")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      makeUserSummary(user),
	})
}

func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(dbUser))
}

// ChangePassword 校验当前密码后更新为新密码。
func (h *HTTPHandler) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user")
		InternalError(c, "failed to change password")
		return
	}

	if err := auth.VerifyPassword(dbUser.PasswordHash, strings.TrimSpace(req.CurrentPassword)); err != nil {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(strings.TrimSpace(req.NewPassword))
	if err != nil {
		logrus.WithError(err).Error("failed to hash new password")
		InternalError(c, "failed to change password")
		return
	}

	if err := h.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{PasswordHash: &hash}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to update password")
		InternalError(c, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func makeUserSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}
}
