package public

import (
	"errors"
	"strconv"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMyEarnings 获取当前成员的收益汇总
// 口径与推荐网络树一致：自身收益记录 + 作为上线挣得的佣金。
func (h *Handler) GetMyEarnings(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	detail, err := h.NetworkService.GetMemberDetail(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "档案不存在", nil)
		default:
			respondError(c, response.CodeInternal, "收益汇总查询失败", err)
		}
		return
	}

	response.Success(c, detail)
}

// GetMyInvestments 查询当前成员的投资记录
func (h *Handler) GetMyInvestments(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
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

// GetMyCommissions 查询当前成员作为上线挣得的佣金
func (h *Handler) GetMyCommissions(c *gin.Context) {
	id, ok := getProfileID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	commissions, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:       page,
		PageSize:   pageSize,
		ReferrerID: id,
		Type:       c.Query("type"),
		WithMember: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "佣金记录查询失败", err)
		return
	}

	response.SuccessWithPage(c, commissions, response.NewPagination(page, pageSize, total))
}
