package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile 成员档案表
// 主键与身份标识同值：身份一经签发，档案 ID 不再变化。
type Profile struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`           // 身份 ID（UUID）
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                               // 密码哈希（不返回给前端）
	FullName     string         `gorm:"default:''" json:"full_name"`                     // 姓名
	Role         string         `gorm:"type:varchar(16);not null;index" json:"role"`     // 角色：leader / member
	ReferrerID   *string        `gorm:"type:varchar(36);index" json:"referrer_id"`       // 上线档案 ID（根节点为空）
	Category     string         `gorm:"type:varchar(32);default:'standard'" json:"category"` // 成员类别
	Status       string         `gorm:"type:varchar(16);not null;default:'active';index" json:"status"` // 账号状态
	LastLoginAt  *time.Time     `json:"last_login_at"`                                   // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间

	Referrer *Profile `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"` // 上线档案
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// IsLeader 是否为管理员角色
func (p *Profile) IsLeader() bool {
	return p != nil && p.Role == "leader"
}
