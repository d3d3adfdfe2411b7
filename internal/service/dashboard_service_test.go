package service

import (
	"context"
	"testing"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"

	"gorm.io/gorm"
)

func setupDashboardServiceTest(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := newServiceTestConfig(t)
	cfg.Dashboard.Timezone = "UTC"
	svc := NewDashboardService(cfg, repository.NewDashboardRepository(db))
	return svc, db
}

func TestGetOverviewTodayWindow(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)
	createTestProfile(t, db, "dash_leader@example.com", constants.RoleLeader, nil)
	active := createTestProfile(t, db, "dash_active@example.com", constants.RoleMember, nil)
	idle := createTestProfile(t, db, "dash_idle@example.com", constants.RoleMember, nil)

	now := time.Now().UTC()
	records := []models.DailyLog{
		{MemberID: active.ID, ProfitAmount: models.NewMoneyFromFloat(30), LogDate: now},
		{MemberID: active.ID, ProfitAmount: models.NewMoneyFromFloat(70), LogDate: now.AddDate(0, 0, -2)},
	}
	if err := db.Create(&records).Error; err != nil {
		t.Fatalf("seed logs failed: %v", err)
	}
	investment := models.Investment{MemberID: active.ID, Amount: models.NewMoneyFromFloat(1000), Status: constants.InvestmentStatusActive, StartDate: now}
	if err := db.Create(&investment).Error; err != nil {
		t.Fatalf("seed investment failed: %v", err)
	}
	commission := models.Commission{ReferrerID: active.ID, MemberID: idle.ID, Amount: models.NewMoneyFromFloat(50), Type: constants.CommissionTypeReferral, CommissionDate: now}
	if err := db.Create(&commission).Error; err != nil {
		t.Fatalf("seed commission failed: %v", err)
	}
	withdraw := models.WithdrawRequest{MemberID: active.ID, Amount: models.NewMoneyFromFloat(20), Status: constants.WithdrawStatusPending}
	if err := db.Create(&withdraw).Error; err != nil {
		t.Fatalf("seed withdraw failed: %v", err)
	}

	overview, err := svc.GetOverview(context.Background(), true)
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.MembersTotal != 2 || overview.MembersActive != 2 {
		t.Fatalf("member counts unexpected: %+v", overview)
	}
	// 今日仅 active 提交过记录，idle 计入待提交
	if overview.MembersPendingLog != 1 {
		t.Fatalf("pending log members want 1 got %d", overview.MembersPendingLog)
	}
	if overview.TodayProfit != "30.00" {
		t.Fatalf("today profit want 30.00 got %s", overview.TodayProfit)
	}
	if overview.LifetimeLogProfit != "100.00" {
		t.Fatalf("lifetime log profit want 100.00 got %s", overview.LifetimeLogProfit)
	}
	if overview.LifetimeProfit != "150.00" {
		t.Fatalf("lifetime profit (logs+commissions) want 150.00 got %s", overview.LifetimeProfit)
	}
	if overview.TotalInvested != "1000.00" {
		t.Fatalf("total invested want 1000.00 got %s", overview.TotalInvested)
	}
	if overview.PendingWithdrawals != 1 {
		t.Fatalf("pending withdrawals want 1 got %d", overview.PendingWithdrawals)
	}
	if overview.Timezone != "UTC" {
		t.Fatalf("timezone want UTC got %s", overview.Timezone)
	}
}

func TestGetTrendsFillsMissingDays(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)
	member := createTestProfile(t, db, "trend@example.com", constants.RoleMember, nil)

	now := time.Now().UTC()
	record := models.DailyLog{MemberID: member.ID, ProfitAmount: models.NewMoneyFromFloat(42), LogDate: now.AddDate(0, 0, -1)}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed log failed: %v", err)
	}

	trends, err := svc.GetTrends(context.Background(), 3)
	if err != nil {
		t.Fatalf("get trends failed: %v", err)
	}
	if len(trends.Points) != 3 {
		t.Fatalf("points want 3 got %d", len(trends.Points))
	}
	withData := 0
	for _, point := range trends.Points {
		if point.Profit != "0.00" {
			withData++
			if point.Profit != "42.00" || point.Logs != 1 {
				t.Fatalf("data point unexpected: %+v", point)
			}
		}
	}
	if withData != 1 {
		t.Fatalf("days with data want 1 got %d", withData)
	}
}

func TestGetTopEarnersOrdering(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)
	low := createTestProfile(t, db, "earner_low@example.com", constants.RoleMember, nil)
	high := createTestProfile(t, db, "earner_high@example.com", constants.RoleMember, nil)

	now := time.Now().UTC()
	records := []models.DailyLog{
		{MemberID: low.ID, ProfitAmount: models.NewMoneyFromFloat(10), LogDate: now},
		{MemberID: high.ID, ProfitAmount: models.NewMoneyFromFloat(60), LogDate: now},
		{MemberID: high.ID, ProfitAmount: models.NewMoneyFromFloat(40), LogDate: now.AddDate(0, 0, -1)},
	}
	if err := db.Create(&records).Error; err != nil {
		t.Fatalf("seed logs failed: %v", err)
	}

	earners, err := svc.GetTopEarners(5)
	if err != nil {
		t.Fatalf("get top earners failed: %v", err)
	}
	if len(earners) != 2 {
		t.Fatalf("earners want 2 got %d", len(earners))
	}
	if earners[0].MemberID != high.ID || earners[0].Profit != "100.00" {
		t.Fatalf("first earner unexpected: %+v", earners[0])
	}
	if earners[1].MemberID != low.ID || earners[1].Profit != "10.00" {
		t.Fatalf("second earner unexpected: %+v", earners[1])
	}
}

func TestBusinessDayWindow(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// UTC 3 月 1 日凌晨在纽约仍是 2 月 28 日
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	start, end := businessDayWindow(now, newYork)
	if start.Year() != 2026 || start.Month() != 2 || start.Day() != 28 {
		t.Fatalf("window start want 2026-02-28 local, got %v", start)
	}
	if start.Hour() != 0 || start.Location() != newYork {
		t.Fatalf("window start must be local midnight, got %v", start)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Fatalf("window length want 24h got %v", got)
	}
}

func TestBusinessLocationFallsBackToUTC(t *testing.T) {
	svc, _ := setupDashboardServiceTest(t)
	svc.cfg.Dashboard.Timezone = "Not/AZone"
	location, name := svc.businessLocation()
	if location != time.UTC || name != "UTC" {
		t.Fatalf("invalid timezone must fall back to UTC, got %v %s", location, name)
	}
}
