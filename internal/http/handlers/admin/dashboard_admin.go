package admin

import (
	"strconv"

	"github.com/profitgrid/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取仪表盘总览
// refresh=true 跳过缓存强制重算。
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"

	overview, err := h.DashboardService.GetOverview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "仪表盘数据查询失败", err)
		return
	}

	response.Success(c, overview)
}

// GetDashboardTrends 获取近 N 天收益趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trends, err := h.DashboardService.GetTrends(c.Request.Context(), days)
	if err != nil {
		respondError(c, response.CodeInternal, "收益趋势查询失败", err)
		return
	}

	response.Success(c, trends)
}

// GetDashboardTopEarners 获取收益排行榜
func (h *Handler) GetDashboardTopEarners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	earners, err := h.DashboardService.GetTopEarners(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "收益排行查询失败", err)
		return
	}

	response.Success(c, earners)
}
