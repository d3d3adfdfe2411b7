package repository

import (
	"errors"

	"github.com/profitgrid/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvestmentRepository 投资记录数据访问接口
type InvestmentRepository interface {
	GetByID(id uint) (*models.Investment, error)
	GetLatestByMember(memberID string) (*models.Investment, error)
	Create(investment *models.Investment) error
	Update(investment *models.Investment) error
	List(filter InvestmentListFilter) ([]models.Investment, int64, error)
	ListByMember(memberID string) ([]models.Investment, error)
	SumAmount(status string) (decimal.Decimal, error)
}

// GormInvestmentRepository GORM 实现
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository 创建投资仓库
func NewInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// GetByID 根据 ID 获取投资记录
func (r *GormInvestmentRepository) GetByID(id uint) (*models.Investment, error) {
	var investment models.Investment
	if err := r.db.First(&investment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &investment, nil
}

// GetLatestByMember 获取成员最近一笔投资
func (r *GormInvestmentRepository) GetLatestByMember(memberID string) (*models.Investment, error) {
	var investment models.Investment
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at DESC").
		First(&investment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &investment, nil
}

// Create 创建投资记录
func (r *GormInvestmentRepository) Create(investment *models.Investment) error {
	return r.db.Create(investment).Error
}

// Update 更新投资记录
func (r *GormInvestmentRepository) Update(investment *models.Investment) error {
	return r.db.Save(investment).Error
}

// List 按过滤条件查询投资列表
func (r *GormInvestmentRepository) List(filter InvestmentListFilter) ([]models.Investment, int64, error) {
	query := r.db.Model(&models.Investment{})
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

	var investments []models.Investment
	err := query.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&investments).Error
	if err != nil {
		return nil, 0, err
	}
	return investments, total, nil
}

// ListByMember 获取成员全部投资记录
func (r *GormInvestmentRepository) ListByMember(memberID string) ([]models.Investment, error) {
	var investments []models.Investment
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&investments).Error
	if err != nil {
		return nil, err
	}
	return investments, nil
}

// SumAmount 统计投资总额（status 为空时统计全部）
func (r *GormInvestmentRepository) SumAmount(status string) (decimal.Decimal, error) {
	query := r.db.Model(&models.Investment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var raw *string
	if err := query.Select("SUM(amount)").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
