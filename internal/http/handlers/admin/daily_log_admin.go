package admin

import (
	"strings"
	"time"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitMemberLog 代成员提交收益记录（multipart 表单，截图可选）
func (h *Handler) SubmitMemberLog(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
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
		requestLog(c).Warnw("member_log_submit_rejected",
			"member_id", id, "step", result.Step, "message", result.Message)
		response.ErrorWithData(c, response.CodeBadRequest, result.Message, gin.H{"step": result.Step})
		return
	}

	response.SuccessWithMsg(c, result.Message, record)
}
