package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitMyLog 提交当日收益记录（multipart 表单，截图可选）
func (h *Handler) SubmitMyLog(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	amount := strings.TrimSpace(c.PostForm("amount"))
	if amount == "" {
		respondError(c, response.CodeBadRequest, "收益金额不能为空", nil)
		return
	}

	var logDate *time.Time
	if raw := strings.TrimSpace(c.PostForm("log_date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
			return
		}
		logDate = &parsed
	}

	screenshot, err := c.FormFile("screenshot")
	if err != nil {
		screenshot = nil
	}

	result, record := h.DailyLogService.SubmitLog(service.SubmitLogInput{
		MemberID:   id,
		Amount:     amount,
		LogDate:    logDate,
		Screenshot: screenshot,
	})
	if !result.OK {
		requestLog(c).Warnw("daily_log_submit_rejected",
			"member_id", id, "step", result.Step, "message", result.Message)
		response.ErrorWithData(c, response.CodeBadRequest, result.Message, gin.H{"step": result.Step})
		return
	}

	response.SuccessWithMsg(c, result.Message, record)
}

// GetMyLogs 查询当前成员的收益记录
func (h *Handler) GetMyLogs(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.DailyLogListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: id,
	}
	from, valid := parseDateQuery(c, "from")
	if !valid {
		return
	}
	filter.LoggedFrom = from
	to, valid := parseDateQuery(c, "to")
	if !valid {
		return
	}
	filter.LoggedTo = to

	logs, total, err := h.DailyLogService.ListLogs(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "收益记录查询失败", err)
		return
	}

	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// parseDateQuery 解析 YYYY-MM-DD 查询参数；格式非法时已写出错误响应
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
		return nil, false
	}
	return &parsed, true
}
