package repository

import (
	"errors"

	"github.com/profitgrid/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRepository 佣金记录数据访问接口
type CommissionRepository interface {
	GetByID(id uint) (*models.Commission, error)
	Create(commission *models.Commission) error
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListAll() ([]models.Commission, error)
	SumByReferrer(referrerID string) (decimal.Decimal, error)
	SumAll() (decimal.Decimal, error)
}

// GormCommissionRepository GORM 实现
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓库
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// GetByID 根据 ID 获取佣金记录
func (r *GormCommissionRepository) GetByID(id uint) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// List 按过滤条件查询佣金列表
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})
	if filter.ReferrerID != "" {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithMember {
		query = query.Preload("Member").Preload("Referrer")
	}

	var commissions []models.Commission
	err := query.Order("commission_date DESC, id DESC").Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&commissions).Error
	if err != nil {
		return nil, 0, err
	}
	return commissions, total, nil
}

// ListAll 获取全部佣金记录（树聚合用）
func (r *GormCommissionRepository) ListAll() ([]models.Commission, error) {
	var commissions []models.Commission
	if err := r.db.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// SumByReferrer 统计某上线挣得的佣金总额
func (r *GormCommissionRepository) SumByReferrer(referrerID string) (decimal.Decimal, error) {
	var raw *string
	err := r.db.Model(&models.Commission{}).
		Where("referrer_id = ?", referrerID).
		Select("SUM(amount)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// SumAll 统计全部佣金总额
func (r *GormCommissionRepository) SumAll() (decimal.Decimal, error) {
	var raw *string
	if err := r.db.Model(&models.Commission{}).Select("SUM(amount)").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
