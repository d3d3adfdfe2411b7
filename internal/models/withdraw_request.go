package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawRequest 提现申请表
type WithdrawRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                         // 主键
	MemberID  string         `gorm:"type:varchar(36);not null;index" json:"member_id"`             // 成员档案 ID
	Amount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`          // 提现金额
	ProofURL  string         `gorm:"type:varchar(512)" json:"proof_url"`                           // 转账/回执凭证地址
	Status    string         `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"` // 状态：pending / approved / rejected
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Member Profile `gorm:"foreignKey:MemberID" json:"member,omitempty"` // 成员档案
}

// TableName 指定表名
func (WithdrawRequest) TableName() string {
	return "withdraw_requests"
}
