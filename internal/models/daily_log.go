package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog 每日收益记录表
// 同一成员同一天允许多条记录：核心层不做唯一约束（见 DESIGN.md）。
type DailyLog struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	MemberID      string         `gorm:"type:varchar(36);not null;index" json:"member_id"`          // 成员档案 ID
	ProfitAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"profit_amount"` // 当日收益金额
	ScreenshotURL string         `gorm:"type:varchar(512)" json:"screenshot_url"`                   // 结果截图地址
	LogDate       time.Time      `gorm:"not null;index" json:"log_date"`                            // 记录日期
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Member Profile `gorm:"foreignKey:MemberID" json:"member,omitempty"` // 成员档案
}

// TableName 指定表名
func (DailyLog) TableName() string {
	return "daily_logs"
}
