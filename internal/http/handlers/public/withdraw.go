package public

import (
	"errors"
	"strconv"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateWithdrawRequest 提现申请请求
type CreateWithdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// CreateMyWithdraw 发起提现申请
func (h *Handler) CreateMyWithdraw(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	var req CreateWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	request, err := h.WithdrawService.CreateRequest(id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountInvalid):
			respondError(c, response.CodeBadRequest, "提现金额不合法", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "档案不存在", nil)
		default:
			respondError(c, response.CodeInternal, "提现申请失败", err)
		}
		return
	}

	response.Success(c, request)
}

// GetMyWithdrawals 查询当前成员的提现申请
func (h *Handler) GetMyWithdrawals(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	requests, total, err := h.WithdrawService.List(repository.WithdrawListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: id,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "提现记录查询失败", err)
		return
	}

	response.SuccessWithPage(c, requests, response.NewPagination(page, pageSize, total))
}
