package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 推荐佣金记录表
// referral 类型由被推荐人投资自动产生（按比例），manual 类型由管理员手工录入。
type Commission struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                  // 主键
	ReferrerID     string         `gorm:"type:varchar(36);not null;index" json:"referrer_id"`    // 获得佣金的上线档案 ID
	MemberID       string         `gorm:"type:varchar(36);not null;index" json:"member_id"`      // 产生佣金的成员档案 ID
	Amount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`   // 佣金金额
	Type           string         `gorm:"type:varchar(16);not null;index" json:"type"`           // 佣金类型：referral / manual
	Description    string         `gorm:"type:varchar(255)" json:"description"`                  // 备注
	CommissionDate time.Time      `gorm:"index" json:"commission_date"`                          // 佣金归属日期
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	Referrer Profile `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"` // 上线档案
	Member   Profile `gorm:"foreignKey:MemberID" json:"member,omitempty"`     // 成员档案
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
