package public

import (
	"errors"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/session"

	"github.com/gin-gonic/gin"
)

// GetSession 获取当前会话状态
// 快照来自档案同步状态机：phase 为 syncing 时档案可能尚未就绪。
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	snapshot, found := h.SessionHub.Snapshot(id)
	if !found {
		// 服务重启后内存态丢失，补发一次登入通知重建状态机
		email := ""
		if value, exists := c.Get("email"); exists {
			if s, ok := value.(string); ok {
				email = s
			}
		}
		machine := h.SessionHub.SignedIn(session.Identity{ID: id, Email: email})
		if machine == nil {
			respondError(c, response.CodeInternal, "会话状态不可用", nil)
			return
		}
		snapshot = machine.Snapshot()
	}

	response.Success(c, snapshot)
}

// RefreshSession 重新拉取当前会话的档案
func (h *Handler) RefreshSession(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	if err := h.SessionHub.Refresh(id); err != nil {
		switch {
		case errors.Is(err, session.ErrProfileNotFound):
			respondError(c, response.CodeNotFound, "会话不存在", nil)
		default:
			respondError(c, response.CodeInternal, "会话刷新失败", err)
		}
		return
	}

	snapshot, _ := h.SessionHub.Snapshot(id)
	response.Success(c, snapshot)
}
