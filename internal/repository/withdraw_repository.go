package repository

import (
	"errors"

	"github.com/profitgrid/internal/models"

	"gorm.io/gorm"
)

// WithdrawRepository 提现申请数据访问接口
type WithdrawRepository interface {
	GetByID(id uint) (*models.WithdrawRequest, error)
	Create(request *models.WithdrawRequest) error
	Update(request *models.WithdrawRequest) error
	List(filter WithdrawListFilter) ([]models.WithdrawRequest, int64, error)
	CountByStatus(status string) (int64, error)
}

// GormWithdrawRepository GORM 实现
type GormWithdrawRepository struct {
	db *gorm.DB
}

// NewWithdrawRepository 创建提现仓库
func NewWithdrawRepository(db *gorm.DB) *GormWithdrawRepository {
	return &GormWithdrawRepository{db: db}
}

// GetByID 根据 ID 获取提现申请
func (r *GormWithdrawRepository) GetByID(id uint) (*models.WithdrawRequest, error) {
	var request models.WithdrawRequest
	if err := r.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Create 创建提现申请
func (r *GormWithdrawRepository) Create(request *models.WithdrawRequest) error {
	return r.db.Create(request).Error
}

// Update 更新提现申请
func (r *GormWithdrawRepository) Update(request *models.WithdrawRequest) error {
	return r.db.Save(request).Error
}

// List 按过滤条件查询提现申请列表
func (r *GormWithdrawRepository) List(filter WithdrawListFilter) ([]models.WithdrawRequest, int64, error) {
	query := r.db.Model(&models.WithdrawRequest{})
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithMember {
		query = query.Preload("Member")
	}

	var requests []models.WithdrawRequest
	err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// CountByStatus 按状态统计提现申请数量
func (r *GormWithdrawRepository) CountByStatus(status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.WithdrawRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
