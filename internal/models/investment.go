package models

import (
	"time"

	"gorm.io/gorm"
)

// Investment 投资记录表
type Investment struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                        // 主键
	MemberID  string         `gorm:"type:varchar(36);not null;index" json:"member_id"`            // 成员档案 ID
	Amount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`         // 投资金额
	Status    string         `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"` // 状态：pending / active / completed
	ProofURL  string         `gorm:"type:varchar(512)" json:"proof_url"`                          // 投资凭证地址
	StartDate time.Time      `gorm:"index" json:"start_date"`                                     // 起始日期
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Member Profile `gorm:"foreignKey:MemberID" json:"member,omitempty"` // 成员档案
}

// TableName 指定表名
func (Investment) TableName() string {
	return "investments"
}
