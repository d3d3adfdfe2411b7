package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/profitgrid/internal/cache"
	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证服务
// 负责口令登录、免密登录链接与会话通知投递。
type AuthService struct {
	cfg         *config.Config
	profileRepo repository.ProfileRepository
	hub         *session.Hub
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, profileRepo repository.ProfileRepository, hub *session.Hub) *AuthService {
	return &AuthService{
		cfg:         cfg,
		profileRepo: profileRepo,
		hub:         hub,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(profile *models.Profile) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Login 口令登录
// 成功后向会话中心投递登入通知，由状态机异步拉取档案。
func (s *AuthService) Login(email, password string) (*models.Profile, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	profile, err := s.profileRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if profile == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(profile.Status) != constants.ProfileStatusActive {
		return nil, "", time.Time{}, ErrProfileDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(profile)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	profile.LastLoginAt = &now
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, "", time.Time{}, err
	}

	if s.hub != nil {
		s.hub.SignedIn(session.Identity{ID: profile.ID, Email: profile.Email})
	}
	return profile, token, expiresAt, nil
}

// IssueLoginLink 为成员签发一次性免密登录令牌
// 令牌只存缓存，消费或到期即失效。
func (s *AuthService) IssueLoginLink(ctx context.Context, profileID string) (string, time.Time, error) {
	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return "", time.Time{}, err
	}
	if profile == nil {
		return "", time.Time{}, ErrNotFound
	}

	expireSeconds := s.cfg.LoginLink.ExpireSeconds
	if expireSeconds <= 0 {
		expireSeconds = 600
	}
	ttl := time.Duration(expireSeconds) * time.Second
	token := uuid.NewString()
	state := &cache.LoginLinkState{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Purpose:   constants.LoginLinkPurpose,
		IssuedAt:  time.Now().Unix(),
	}
	if err := cache.SetLoginLink(ctx, token, state, ttl); err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(ttl), nil
}

// ConsumeLoginLink 消费登录链接令牌并建立会话
func (s *AuthService) ConsumeLoginLink(ctx context.Context, token string) (*models.Profile, string, time.Time, error) {
	state, hit, err := cache.ConsumeLoginLink(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !hit || state.Purpose != constants.LoginLinkPurpose {
		return nil, "", time.Time{}, ErrLoginLinkInvalid
	}

	profile, err := s.profileRepo.GetByID(state.ProfileID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if profile == nil {
		return nil, "", time.Time{}, ErrLoginLinkInvalid
	}
	if strings.ToLower(profile.Status) != constants.ProfileStatusActive {
		return nil, "", time.Time{}, ErrProfileDisabled
	}

	jwtToken, expiresAt, err := s.GenerateJWT(profile)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	profile.LastLoginAt = &now
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, "", time.Time{}, err
	}

	if s.hub != nil {
		s.hub.SignedIn(session.Identity{ID: profile.ID, Email: profile.Email})
	}
	return profile, jwtToken, expiresAt, nil
}

// Logout 登出并销毁会话状态机
func (s *AuthService) Logout(profileID string) {
	if s.hub != nil {
		s.hub.SignedOut(profileID)
	}
}

// GetProfileByID 获取档案
func (s *AuthService) GetProfileByID(id string) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return s.profileRepo.GetByID(id)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}
