package queue

import (
	"encoding/json"

	"github.com/profitgrid/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCommissionAccrue 推荐佣金计提任务
	TaskCommissionAccrue = constants.TaskCommissionAccrue
)

// CommissionAccruePayload 佣金计提任务载荷
type CommissionAccruePayload struct {
	ReferrerID   string `json:"referrer_id"`
	MemberID     string `json:"member_id"`
	Amount       string `json:"amount"`
	InvestmentID uint   `json:"investment_id"`
}

// NewCommissionAccrueTask 创建佣金计提任务
// 计提为尽力而为：任务不重试，失败仅记录日志。
func NewCommissionAccrueTask(payload CommissionAccruePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionAccrue, body, asynq.MaxRetry(0)), nil
}
