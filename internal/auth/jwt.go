package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flashcard/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// Claims 认证请求携带的 JWT 载荷。
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager 封装 JWT 的签发与校验。
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewManager 创建 JWT 管理器。secret 不允许为空。
func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = defaultTokenTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "flashcard"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		expiry: expiry,
	}, nil
}

// GenerateToken 为用户签发 HS256 token，返回 token 与过期时间。
func (m *Manager) GenerateToken(user *entity.DbUser) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	now := time.Now().UTC()
	expiry := now.Add(m.expiry)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken 校验 token 并返回载荷。只接受 HS256。
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
