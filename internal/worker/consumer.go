package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/provider"
	"github.com/profitgrid/internal/queue"
	"github.com/profitgrid/internal/service"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCommissionAccrue, c.handleCommissionAccrue)
}

// handleCommissionAccrue 处理佣金计提任务
// 计提为尽力而为：除载荷损坏外的失败均记日志后吞掉，不触发重试。
func (c *Consumer) handleCommissionAccrue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_commission_accrue_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CommissionAccruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_commission_accrue_unmarshal_failed", "error", err)
		return err
	}
	if payload.ReferrerID == "" || payload.MemberID == "" {
		logger.Debugw("worker_commission_accrue_skip_invalid_payload",
			"referrer_id", payload.ReferrerID, "member_id", payload.MemberID)
		return nil
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		logger.Warnw("worker_commission_accrue_skip_invalid_amount", "amount", payload.Amount, "error", err)
		return nil
	}
	if c.CommissionService == nil {
		logger.Warnw("worker_commission_accrue_skip_service_nil", "member_id", payload.MemberID)
		return nil
	}

	member, err := c.ProfileRepo.GetByID(payload.MemberID)
	if err != nil {
		logger.Warnw("worker_commission_accrue_fetch_member_failed", "member_id", payload.MemberID, "error", err)
		return nil
	}
	memberName := payload.MemberID
	if member != nil {
		memberName = member.FullName
	}

	description := fmt.Sprintf("新成员 %s 投资推荐佣金", memberName)
	if _, err := c.CommissionService.AccrueReferral(payload.ReferrerID, payload.MemberID, amount, description); err != nil {
		switch {
		case errors.Is(err, service.ErrReferrerNotFound):
			logger.Debugw("worker_commission_accrue_skip_referrer_not_found", "referrer_id", payload.ReferrerID)
			return nil
		default:
			logger.Warnw("worker_commission_accrue_failed",
				"referrer_id", payload.ReferrerID, "member_id", payload.MemberID, "error", err)
			return nil
		}
	}
	return nil
}
