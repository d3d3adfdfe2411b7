// Package admin 提供面向管理端（leader）的 HTTP 处理器。
package admin

import (
	"github.com/profitgrid/internal/provider"
)

// Handler 管理端处理器
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		Container: c,
	}
}
