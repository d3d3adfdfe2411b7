package admin

import (
	"errors"
	"strconv"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateManualCommissionRequest 手工佣金录入请求
type CreateManualCommissionRequest struct {
	ReferrerID  string `json:"referrer_id" binding:"required"`
	MemberID    string `json:"member_id"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// CreateManualCommission 手工录入佣金
func (h *Handler) CreateManualCommission(c *gin.Context) {
	var req CreateManualCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	date, err := parseTimeNullable(req.Date)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式不正确", nil)
		return
	}

	commission, err := h.CommissionService.CreateManual(service.CreateManualInput{
		ReferrerID:  req.ReferrerID,
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountInvalid):
			respondError(c, response.CodeBadRequest, "佣金金额不合法", nil)
		case errors.Is(err, service.ErrReferrerNotFound):
			respondError(c, response.CodeNotFound, "上线档案不存在", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "成员不存在", nil)
		default:
			respondError(c, response.CodeInternal, "佣金录入失败", err)
		}
		return
	}

	response.Success(c, commission)
}

// GetCommissions 查询佣金列表
func (h *Handler) GetCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	commissions, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:       page,
		PageSize:   pageSize,
		ReferrerID: c.Query("referrer_id"),
		MemberID:   c.Query("member_id"),
		Type:       c.Query("type"),
		WithMember: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "佣金列表查询失败", err)
		return
	}

	response.SuccessWithPage(c, commissions, response.NewPagination(page, pageSize, total))
}
