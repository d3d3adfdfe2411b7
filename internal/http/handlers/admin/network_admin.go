package admin

import (
	"github.com/profitgrid/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetNetworkTree 获取推荐网络树
// 每次请求基于全量档案重建，节点收益 = 自身收益记录 + 作为上线挣得的佣金。
func (h *Handler) GetNetworkTree(c *gin.Context) {
	tree, err := h.NetworkService.BuildTree()
	if err != nil {
		respondError(c, response.CodeInternal, "推荐网络构建失败", err)
		return
	}

	response.Success(c, tree)
}
