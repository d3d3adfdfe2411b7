package repository

import (
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则；时间窗口由服务层按业务时区计算后传入。
type DashboardRepository interface {
	GetOverview(dayStart, dayEnd time.Time) (DashboardOverviewRow, error)
	GetProfitTrends(startAt, endAt time.Time) ([]DashboardProfitTrendRow, error)
	GetTopEarners(limit int) ([]DashboardEarnerRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	MembersTotal       int64
	MembersActive      int64
	MembersPendingLog  int64
	TotalInvested      decimal.Decimal
	LifetimeLogProfit  decimal.Decimal
	LifetimeCommission decimal.Decimal
	TodayProfit        decimal.Decimal
	PendingWithdrawals int64
}

// DashboardProfitTrendRow 收益趋势统计
type DashboardProfitTrendRow struct {
	Day    string
	Profit decimal.Decimal
	Logs   int64
}

// DashboardEarnerRow 收益排行原始行
type DashboardEarnerRow struct {
	MemberID string
	Name     string
	Profit   decimal.Decimal
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func sumDecimal(query *gorm.DB, expr string) (decimal.Decimal, error) {
	var raw *string
	if err := query.Select(expr).Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// GetOverview 获取总览统计，窗口 [dayStart, dayEnd) 为业务时区下的今天
func (r *GormDashboardRepository) GetOverview(dayStart, dayEnd time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	memberBase := func() *gorm.DB {
		return r.db.Model(&models.Profile{}).Where("role = ?", constants.RoleMember)
	}

	if err := memberBase().Count(&result.MembersTotal).Error; err != nil {
		return result, err
	}
	if err := memberBase().Where("status = ?", constants.ProfileStatusActive).Count(&result.MembersActive).Error; err != nil {
		return result, err
	}

	// 今天尚未提交收益记录的活跃成员数
	loggedToday := r.db.Model(&models.DailyLog{}).
		Select("DISTINCT member_id").
		Where("log_date >= ? AND log_date < ?", dayStart, dayEnd)
	if err := memberBase().
		Where("status = ?", constants.ProfileStatusActive).
		Where("id NOT IN (?)", loggedToday).
		Count(&result.MembersPendingLog).Error; err != nil {
		return result, err
	}

	var err error
	result.TotalInvested, err = sumDecimal(
		r.db.Model(&models.Investment{}).Where("status <> ?", constants.InvestmentStatusPending),
		"SUM(amount)")
	if err != nil {
		return result, err
	}

	result.LifetimeLogProfit, err = sumDecimal(r.db.Model(&models.DailyLog{}), "SUM(profit_amount)")
	if err != nil {
		return result, err
	}
	result.LifetimeCommission, err = sumDecimal(r.db.Model(&models.Commission{}), "SUM(amount)")
	if err != nil {
		return result, err
	}

	result.TodayProfit, err = sumDecimal(
		r.db.Model(&models.DailyLog{}).Where("log_date >= ? AND log_date < ?", dayStart, dayEnd),
		"SUM(profit_amount)")
	if err != nil {
		return result, err
	}

	if err := r.db.Model(&models.WithdrawRequest{}).
		Where("status = ?", constants.WithdrawStatusPending).
		Count(&result.PendingWithdrawals).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetProfitTrends 获取按天分组的收益趋势
func (r *GormDashboardRepository) GetProfitTrends(startAt, endAt time.Time) ([]DashboardProfitTrendRow, error) {
	type rawRow struct {
		Day    string
		Profit string
		Logs   int64
	}

	dayExpr := "CAST(date(log_date) AS TEXT)"
	var raws []rawRow
	if err := r.db.Model(&models.DailyLog{}).
		Select(dayExpr + " as day, COALESCE(SUM(profit_amount), 0) as profit, COUNT(*) as logs").
		Where("log_date >= ? AND log_date < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&raws).Error; err != nil {
		return nil, err
	}

	result := make([]DashboardProfitTrendRow, 0, len(raws))
	for _, item := range raws {
		profit, err := decimal.NewFromString(item.Profit)
		if err != nil {
			return nil, err
		}
		result = append(result, DashboardProfitTrendRow{
			Day:    item.Day,
			Profit: profit,
			Logs:   item.Logs,
		})
	}
	return result, nil
}

// GetTopEarners 获取收益排行榜（仅按日收益记录统计）
func (r *GormDashboardRepository) GetTopEarners(limit int) ([]DashboardEarnerRow, error) {
	if limit <= 0 {
		limit = 5
	}

	type rawRow struct {
		MemberID string
		Name     string
		Profit   string
	}
	var raws []rawRow
	if err := r.db.Model(&models.DailyLog{}).
		Select(`
			daily_logs.member_id as member_id,
			COALESCE(profiles.full_name, '') as name,
			COALESCE(SUM(daily_logs.profit_amount), 0) as profit
		`).
		Joins("LEFT JOIN profiles ON profiles.id = daily_logs.member_id").
		Group("daily_logs.member_id, profiles.full_name").
		Order("profit DESC").
		Limit(limit).
		Scan(&raws).Error; err != nil {
		return nil, err
	}

	result := make([]DashboardEarnerRow, 0, len(raws))
	for _, item := range raws {
		profit, err := decimal.NewFromString(item.Profit)
		if err != nil {
			return nil, err
		}
		result = append(result, DashboardEarnerRow{
			MemberID: item.MemberID,
			Name:     item.Name,
			Profit:   profit,
		})
	}
	return result, nil
}
