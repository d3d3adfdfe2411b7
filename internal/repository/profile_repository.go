package repository

import (
	"errors"
	"strings"

	"github.com/profitgrid/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository 成员档案数据访问接口
type ProfileRepository interface {
	GetByID(id string) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	GetWithReferrer(id string) (*models.Profile, error)
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	Upsert(profile *models.Profile) error
	List(filter ProfileListFilter) ([]models.Profile, int64, error)
	ListAll() ([]models.Profile, error)
	CountByRole(role string) (int64, error)
}

// GormProfileRepository GORM 实现
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建档案仓库
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// GetByID 根据 ID 获取档案
func (r *GormProfileRepository) GetByID(id string) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByEmail 根据邮箱获取档案
func (r *GormProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", strings.TrimSpace(email)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetWithReferrer 获取档案并预载上线档案
func (r *GormProfileRepository) GetWithReferrer(id string) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var profile models.Profile
	if err := r.db.Preload("Referrer").Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Create 创建档案
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Update 更新档案
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Upsert 按主键插入或更新档案
// 与外部托管库的 upsert-by-id 语义对齐：已存在则覆盖业务字段。
func (r *GormProfileRepository) Upsert(profile *models.Profile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "full_name", "role", "referrer_id", "category", "updated_at",
		}),
	}).Create(profile).Error
}

// List 按过滤条件查询档案列表
func (r *GormProfileRepository) List(filter ProfileListFilter) ([]models.Profile, int64, error) {
	query := r.db.Model(&models.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ReferrerID != "" {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderByName {
		query = query.Order("full_name ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	var profiles []models.Profile
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// ListAll 获取全部档案（树构建用，假定无分页）
func (r *GormProfileRepository) ListAll() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountByRole 按角色统计档案数量
func (r *GormProfileRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
