package admin

import (
	"strconv"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetGallery 查询收益截图画廊
func (h *Handler) GetGallery(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.DailyLogListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: c.Query("member_id"),
	}
	from, err := parseTimeNullable(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
		return
	}
	filter.LoggedFrom = from
	to, err := parseTimeNullable(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
		return
	}
	filter.LoggedTo = to

	items, total, err := h.DailyLogService.ListGallery(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "画廊查询失败", err)
		return
	}

	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}
