package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateMember 创建成员（multipart 表单，投资凭证可选）
// 多步操作：建档、传凭证、录投资、计佣金；失败响应携带中止步骤。
func (h *Handler) CreateMember(c *gin.Context) {
	var startDate *time.Time
	if raw := strings.TrimSpace(c.PostForm("start_date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
			return
		}
		startDate = &parsed
	}

	proof, err := c.FormFile("proof")
	if err != nil {
		proof = nil
	}

	result, profile := h.MemberService.CreateMember(service.CreateMemberInput{
		Email:            c.PostForm("email"),
		Password:         c.PostForm("password"),
		FullName:         c.PostForm("full_name"),
		Category:         c.PostForm("category"),
		ReferrerID:       c.PostForm("referrer_id"),
		InvestmentAmount: c.PostForm("investment_amount"),
		StartDate:        startDate,
		Proof:            proof,
	})
	if !result.OK {
		requestLog(c).Warnw("member_create_rejected",
			"email", c.PostForm("email"), "step", result.Step, "message", result.Message)
		response.ErrorWithData(c, response.CodeBadRequest, result.Message, gin.H{"step": result.Step})
		return
	}

	response.SuccessWithMsg(c, result.Message, profile)
}

// GetMembers 查询成员列表
func (h *Handler) GetMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	members, total, err := h.MemberService.ListMembers(repository.ProfileListFilter{
		Page:       page,
		PageSize:   pageSize,
		Role:       c.Query("role"),
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		ReferrerID: c.Query("referrer_id"),
		Keyword:    c.Query("keyword"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "成员列表查询失败", err)
		return
	}

	response.SuccessWithPage(c, members, response.NewPagination(page, pageSize, total))
}

// GetMember 获取成员详情（含投资与收益汇总）
func (h *Handler) GetMember(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
		return
	}

	detail, err := h.NetworkService.GetMemberDetail(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "成员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "成员详情查询失败", err)
		}
		return
	}

	response.Success(c, detail)
}

// UpdateMemberRequest 成员更新请求
type UpdateMemberRequest struct {
	FullName *string `json:"full_name"`
	Category *string `json:"category"`
	Status   *string `json:"status"`
}

// UpdateMember 更新成员档案
func (h *Handler) UpdateMember(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	profile, err := h.MemberService.UpdateMember(id, service.UpdateMemberInput{
		FullName: req.FullName,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "成员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "成员更新失败", err)
		}
		return
	}

	response.Success(c, profile)
}

// GetMemberInvestments 查询成员投资记录
func (h *Handler) GetMemberInvestments(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	investments, total, err := h.MemberService.ListInvestments(repository.InvestmentListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: id,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "投资记录查询失败", err)
		return
	}

	response.SuccessWithPage(c, investments, response.NewPagination(page, pageSize, total))
}

// IssueMemberLoginLink 为成员签发一次性免密登录令牌
func (h *Handler) IssueMemberLoginLink(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
		return
	}

	token, expiresAt, err := h.AuthService.IssueLoginLink(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "成员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "登录链接签发失败", err)
		}
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetMemberLogs 查询成员收益记录
func (h *Handler) GetMemberLogs(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "成员 ID 不能为空", nil)
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

	logs, total, err := h.DailyLogService.ListLogs(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "收益记录查询失败", err)
		return
	}

	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
