package public

import (
	"errors"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 口令登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	profile, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "邮箱格式不正确", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "邮箱或密码错误", nil)
		case errors.Is(err, service.ErrProfileDisabled):
			respondError(c, response.CodeUnauthorized, "账号已被禁用", nil)
		default:
			respondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	response.Success(c, loginResponse(profile, token, expiresAt.Format("2006-01-02T15:04:05Z07:00")))
}

// ConsumeLoginLinkRequest 免密登录链接消费请求
type ConsumeLoginLinkRequest struct {
	Token string `json:"token" binding:"required"`
}

// ConsumeLoginLink 消费一次性登录链接
func (h *Handler) ConsumeLoginLink(c *gin.Context) {
	var req ConsumeLoginLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	profile, token, expiresAt, err := h.AuthService.ConsumeLoginLink(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginLinkInvalid):
			respondError(c, response.CodeUnauthorized, "登录链接无效或已过期", nil)
		case errors.Is(err, service.ErrProfileDisabled):
			respondError(c, response.CodeUnauthorized, "账号已被禁用", nil)
		default:
			respondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	response.Success(c, loginResponse(profile, token, expiresAt.Format("2006-01-02T15:04:05Z07:00")))
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}
	h.AuthService.Logout(id)
	response.Success(c, gin.H{"logged_out": true})
}

// GetMyProfile 获取当前成员档案
func (h *Handler) GetMyProfile(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	profile, err := h.AuthService.GetProfileByID(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "档案不存在", nil)
		default:
			respondError(c, response.CodeInternal, "档案查询失败", err)
		}
		return
	}
	if profile == nil {
		respondError(c, response.CodeNotFound, "档案不存在", nil)
		return
	}
	response.Success(c, profile)
}

func loginResponse(profile *models.Profile, token, expiresAt string) gin.H {
	return gin.H{
		"profile": gin.H{
			"id":        profile.ID,
			"email":     profile.Email,
			"full_name": profile.FullName,
			"role":      profile.Role,
		},
		"token":      token,
		"expires_at": expiresAt,
	}
}
