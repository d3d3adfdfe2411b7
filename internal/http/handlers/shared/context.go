package shared

import (
	"strings"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyProfileID 已认证档案 ID 的上下文键
	ContextKeyProfileID = "profile_id"
	// ContextKeyProfile 已认证档案对象的上下文键
	ContextKeyProfile = "profile"
	// ContextKeyRole 已认证角色的上下文键
	ContextKeyRole = "role"
)

// GetContextProfileID 从上下文读取档案 ID 并统一处理错误响应。
func GetContextProfileID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyProfileID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return "", false
	}
	id, ok := value.(string)
	if !ok || strings.TrimSpace(id) == "" {
		RespondError(c, response.CodeInternal, "会话标识类型异常", nil)
		return "", false
	}
	return id, true
}

// GetContextProfile 从上下文读取已认证档案。
func GetContextProfile(c *gin.Context) (*models.Profile, bool) {
	value, exists := c.Get(ContextKeyProfile)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录或登录已过期", nil)
		return nil, false
	}
	profile, ok := value.(*models.Profile)
	if !ok || profile == nil {
		RespondError(c, response.CodeInternal, "会话档案类型异常", nil)
		return nil, false
	}
	return profile, true
}
