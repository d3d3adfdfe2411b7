package models

import (
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InitDefaultLeader 初始化默认管理员（网络根节点）
// 已存在任意 leader 档案时跳过。
func InitDefaultLeader(email, password string) error {
	var count int64
	DB.Model(&Profile{}).Where("role = ?", constants.RoleLeader).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "leader@profitgrid.local"
	}
	if password == "" {
		password = "leader123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	leader := Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Network Leader",
		Role:         constants.RoleLeader,
		Status:       constants.ProfileStatusActive,
	}
	if err := DB.Create(&leader).Error; err != nil {
		return err
	}

	if password == "leader123" {
		logger.Warnw("default_leader_created_with_default_password", "email", email)
		logger.Warnw("default_leader_password_change_required", "email", email)
	} else {
		logger.Warnw("default_leader_created", "email", email, "password_hidden", true)
	}
	return nil
}
