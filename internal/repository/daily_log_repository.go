package repository

import (
	"errors"
	"time"

	"github.com/profitgrid/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyLogRepository 每日收益记录数据访问接口
type DailyLogRepository interface {
	GetByID(id uint) (*models.DailyLog, error)
	Create(log *models.DailyLog) error
	List(filter DailyLogListFilter) ([]models.DailyLog, int64, error)
	ListAll() ([]models.DailyLog, error)
	SumProfit(memberID string, from, to *time.Time) (decimal.Decimal, error)
	MemberIDsLoggedBetween(from, to time.Time) ([]string, error)
}

// GormDailyLogRepository GORM 实现
type GormDailyLogRepository struct {
	db *gorm.DB
}

// NewDailyLogRepository 创建每日收益仓库
func NewDailyLogRepository(db *gorm.DB) *GormDailyLogRepository {
	return &GormDailyLogRepository{db: db}
}

// GetByID 根据 ID 获取收益记录
func (r *GormDailyLogRepository) GetByID(id uint) (*models.DailyLog, error) {
	var log models.DailyLog
	if err := r.db.First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// Create 创建收益记录
func (r *GormDailyLogRepository) Create(log *models.DailyLog) error {
	return r.db.Create(log).Error
}

// List 按过滤条件查询收益记录列表
func (r *GormDailyLogRepository) List(filter DailyLogListFilter) ([]models.DailyLog, int64, error) {
	query := r.db.Model(&models.DailyLog{})
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.LoggedFrom != nil {
		query = query.Where("log_date >= ?", *filter.LoggedFrom)
	}
	if filter.LoggedTo != nil {
		query = query.Where("log_date < ?", *filter.LoggedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithMember {
		query = query.Preload("Member")
	}

	var logs []models.DailyLog
	err := query.Order("log_date DESC, id DESC").Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListAll 获取全部收益记录（树聚合用）
func (r *GormDailyLogRepository) ListAll() ([]models.DailyLog, error) {
	var logs []models.DailyLog
	if err := r.db.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// SumProfit 统计收益总额，memberID 为空时统计全体，时间窗口为 [from, to)
func (r *GormDailyLogRepository) SumProfit(memberID string, from, to *time.Time) (decimal.Decimal, error) {
	query := r.db.Model(&models.DailyLog{})
	if memberID != "" {
		query = query.Where("member_id = ?", memberID)
	}
	if from != nil {
		query = query.Where("log_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("log_date < ?", *to)
	}
	var raw *string
	if err := query.Select("SUM(profit_amount)").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// MemberIDsLoggedBetween 获取窗口 [from, to) 内有收益记录的成员 ID 去重集合
func (r *GormDailyLogRepository) MemberIDsLoggedBetween(from, to time.Time) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.DailyLog{}).
		Where("log_date >= ? AND log_date < ?", from, to).
		Distinct("member_id").
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
