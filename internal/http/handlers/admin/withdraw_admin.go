package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/profitgrid/internal/http/response"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"
	"github.com/profitgrid/internal/storage"

	"github.com/gin-gonic/gin"
)

// GetWithdrawals 查询提现申请列表
func (h *Handler) GetWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	requests, total, err := h.WithdrawService.List(repository.WithdrawListFilter{
		Page:       page,
		PageSize:   pageSize,
		MemberID:   c.Query("member_id"),
		Status:     c.Query("status"),
		WithMember: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "提现列表查询失败", err)
		return
	}

	response.SuccessWithPage(c, requests, response.NewPagination(page, pageSize, total))
}

// ReviewWithdraw 审核提现申请（multipart 表单，通过时可附转账凭证）
func (h *Handler) ReviewWithdraw(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "提现申请 ID 不合法", nil)
		return
	}

	decision := strings.ToLower(strings.TrimSpace(c.PostForm("decision")))
	if decision != "approve" && decision != "reject" {
		respondError(c, response.CodeBadRequest, "审核结论必须为 approve 或 reject", nil)
		return
	}

	proof, err := c.FormFile("proof")
	if err != nil {
		proof = nil
	}

	request, err := h.WithdrawService.Review(uint(rawID), decision == "approve", proof)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "提现申请不存在", nil)
		case errors.Is(err, service.ErrWithdrawNotPending):
			respondError(c, response.CodeBadRequest, "提现申请已审核", nil)
		case errors.Is(err, storage.ErrFileTooLarge):
			respondError(c, response.CodeBadRequest, "凭证超过大小上限", nil)
		case errors.Is(err, storage.ErrTypeNotAllowed):
			respondError(c, response.CodeBadRequest, "凭证文件类型不支持", nil)
		default:
			respondError(c, response.CodeInternal, "提现审核失败", err)
		}
		return
	}

	response.Success(c, request)
}
