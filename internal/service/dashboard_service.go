package service

import (
	"context"
	"fmt"
	"time"

	"github.com/profitgrid/internal/cache"
	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/repository"
)

const (
	dashboardCacheTTL   = 45 * time.Second
	dashboardTrendDays  = 30
	dashboardTopEarners = 5
)

// DashboardService 仪表盘服务
// 说明：聚合全网经营数据。"今日"窗口统一按配置的业务时区计算，
// 所有聚合共用同一窗口，避免各查询各算时区产生的口径漂移。
type DashboardService struct {
	cfg  *config.Config
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(cfg *config.Config, repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{cfg: cfg, repo: repo}
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Date               string `json:"date"`
	Timezone           string `json:"timezone"`
	MembersTotal       int64  `json:"members_total"`
	MembersActive      int64  `json:"members_active"`
	MembersPendingLog  int64  `json:"members_pending_log"`
	TotalInvested      string `json:"total_invested"`
	LifetimeProfit     string `json:"lifetime_profit"`
	LifetimeLogProfit  string `json:"lifetime_log_profit"`
	LifetimeCommission string `json:"lifetime_commission"`
	TodayProfit        string `json:"today_profit"`
	PendingWithdrawals int64  `json:"pending_withdrawals"`
}

// DashboardTrendPoint 收益趋势点
type DashboardTrendPoint struct {
	Date   string `json:"date"`
	Profit string `json:"profit"`
	Logs   int64  `json:"logs"`
}

// DashboardTrendResponse 收益趋势响应
type DashboardTrendResponse struct {
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardEarner 收益排行项
type DashboardEarner struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Profit   string `json:"profit"`
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, forceRefresh bool) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	location, timezone := s.businessLocation()
	dayStart, dayEnd := businessDayWindow(time.Now(), location)

	cacheKey := fmt.Sprintf("dashboard:overview:%d:%s", dayStart.Unix(), timezone)
	if !forceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverview(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	lifetime := row.LifetimeLogProfit.Add(row.LifetimeCommission)
	response := &DashboardOverviewResponse{
		Date:               dayStart.Format("2006-01-02"),
		Timezone:           timezone,
		MembersTotal:       row.MembersTotal,
		MembersActive:      row.MembersActive,
		MembersPendingLog:  row.MembersPendingLog,
		TotalInvested:      row.TotalInvested.StringFixed(2),
		LifetimeProfit:     lifetime.StringFixed(2),
		LifetimeLogProfit:  row.LifetimeLogProfit.StringFixed(2),
		LifetimeCommission: row.LifetimeCommission.StringFixed(2),
		TodayProfit:        row.TodayProfit.StringFixed(2),
		PendingWithdrawals: row.PendingWithdrawals,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取近 N 天收益趋势
func (s *DashboardService) GetTrends(ctx context.Context, days int) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}
	if days <= 0 || days > 90 {
		days = dashboardTrendDays
	}

	location, timezone := s.businessLocation()
	dayStart, dayEnd := businessDayWindow(time.Now(), location)
	startAt := dayStart.AddDate(0, 0, -(days - 1))

	cacheKey := fmt.Sprintf("dashboard:trends:%d:%d:%s", startAt.Unix(), dayEnd.Unix(), timezone)
	var cached DashboardTrendResponse
	if hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached); cacheErr == nil && hit {
		return &cached, nil
	}

	rows, err := s.repo.GetProfitTrends(startAt, dayEnd)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardProfitTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]DashboardTrendPoint, 0, days)
	for cursor := startAt; cursor.Before(dayEnd); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		profit := "0.00"
		if !item.Profit.IsZero() {
			profit = item.Profit.StringFixed(2)
		}
		points = append(points, DashboardTrendPoint{
			Date:   day,
			Profit: profit,
			Logs:   item.Logs,
		})
	}

	response := &DashboardTrendResponse{
		From:     startAt.Format("2006-01-02"),
		To:       dayStart.Format("2006-01-02"),
		Timezone: timezone,
		Points:   points,
	}
	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTopEarners 获取收益排行榜
func (s *DashboardService) GetTopEarners(limit int) ([]DashboardEarner, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = dashboardTopEarners
	}
	rows, err := s.repo.GetTopEarners(limit)
	if err != nil {
		return nil, err
	}
	earners := make([]DashboardEarner, 0, len(rows))
	for _, item := range rows {
		earners = append(earners, DashboardEarner{
			MemberID: item.MemberID,
			Name:     item.Name,
			Profit:   item.Profit.StringFixed(2),
		})
	}
	return earners, nil
}

// businessLocation 解析业务时区，配置非法时退回 UTC
func (s *DashboardService) businessLocation() (*time.Location, string) {
	timezone := "UTC"
	if s != nil && s.cfg != nil && s.cfg.Dashboard.Timezone != "" {
		timezone = s.cfg.Dashboard.Timezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warnw("dashboard_timezone_invalid", "timezone", timezone, "error", err)
		return time.UTC, "UTC"
	}
	return location, timezone
}

// businessDayWindow 计算业务时区下的今天窗口 [00:00, 24:00)
func businessDayWindow(now time.Time, location *time.Location) (time.Time, time.Time) {
	localNow := now.In(location)
	dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
