// Package public 提供面向成员端的 HTTP 处理器。
package public

import (
	"github.com/profitgrid/internal/provider"
)

// Handler 成员端处理器
type Handler struct {
	*provider.Container
}

// New 创建成员端处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		Container: c,
	}
}
