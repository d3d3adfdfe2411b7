package main

import (
	"fmt"
	"time"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员（推荐网络根节点）
	if err := models.InitDefaultLeader("leader@profitgrid.local", "leader123"); err != nil {
		stdLog.Fatalf("Failed to init default leader: %v", err)
	}
	var leader models.Profile
	if err := models.DB.Where("role = ?", constants.RoleLeader).First(&leader).Error; err != nil {
		stdLog.Fatalf("Failed to load leader profile: %v", err)
	}

	// 添加演示成员（alice 直推于 leader，bob/carol 直推于 alice）
	members := []struct {
		Email      string
		FullName   string
		Category   string
		ReferredBy string // 上线邮箱，空表示直推于 leader
	}{
		{Email: "alice@profitgrid.local", FullName: "Alice Zhang", Category: "vip"},
		{Email: "bob@profitgrid.local", FullName: "Bob Li", Category: "standard", ReferredBy: "alice@profitgrid.local"},
		{Email: "carol@profitgrid.local", FullName: "Carol Wang", Category: "standard", ReferredBy: "alice@profitgrid.local"},
	}

	profileIDs := map[string]string{leader.Email: leader.ID}
	for _, m := range members {
		referrerID := leader.ID
		if m.ReferredBy != "" {
			if id, ok := profileIDs[m.ReferredBy]; ok {
				referrerID = id
			}
		}

		var existing models.Profile
		if err := models.DB.Where("email = ?", m.Email).First(&existing).Error; err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("member123"), bcrypt.DefaultCost)
			if err != nil {
				stdLog.Fatalf("Failed to hash password: %v", err)
			}
			profile := models.Profile{
				ID:           uuid.NewString(),
				Email:        m.Email,
				PasswordHash: string(hash),
				FullName:     m.FullName,
				Role:         constants.RoleMember,
				ReferrerID:   &referrerID,
				Category:     m.Category,
				Status:       constants.ProfileStatusActive,
			}
			if err := models.DB.Create(&profile).Error; err != nil {
				stdLog.Printf("Failed to create member %s: %v", m.Email, err)
				continue
			}
			profileIDs[m.Email] = profile.ID
			stdLog.Printf("Created member: %s", m.Email)
		} else {
			profileIDs[m.Email] = existing.ID
			stdLog.Printf("Member already exists: %s", m.Email)
		}
	}

	// 添加投资记录（每个成员一笔，已存在则跳过）
	investments := []struct {
		Email  string
		Amount float64
	}{
		{Email: "alice@profitgrid.local", Amount: 5000},
		{Email: "bob@profitgrid.local", Amount: 2000},
		{Email: "carol@profitgrid.local", Amount: 1500},
	}
	for _, inv := range investments {
		memberID, ok := profileIDs[inv.Email]
		if !ok {
			continue
		}
		var count int64
		models.DB.Model(&models.Investment{}).Where("member_id = ?", memberID).Count(&count)
		if count > 0 {
			stdLog.Printf("Investment already exists for: %s", inv.Email)
			continue
		}
		record := models.Investment{
			MemberID:  memberID,
			Amount:    models.NewMoneyFromFloat(inv.Amount),
			Status:    constants.InvestmentStatusActive,
			StartDate: time.Now().AddDate(0, 0, -30),
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to create investment for %s: %v", inv.Email, err)
		} else {
			stdLog.Printf("Created investment for %s: %.2f", inv.Email, inv.Amount)
		}
	}

	// 添加近 7 日收益记录（已存在当日记录则跳过）
	dailyProfits := map[string]float64{
		"alice@profitgrid.local": 52.40,
		"bob@profitgrid.local":   18.75,
		"carol@profitgrid.local": 12.30,
	}
	for email, base := range dailyProfits {
		memberID, ok := profileIDs[email]
		if !ok {
			continue
		}
		for day := 1; day <= 7; day++ {
			logDate := time.Now().AddDate(0, 0, -day).Truncate(24 * time.Hour)
			var count int64
			models.DB.Model(&models.DailyLog{}).
				Where("member_id = ? AND log_date = ?", memberID, logDate).
				Count(&count)
			if count > 0 {
				continue
			}
			record := models.DailyLog{
				MemberID:     memberID,
				ProfitAmount: models.NewMoneyFromFloat(base + float64(day)*0.5),
				LogDate:      logDate,
			}
			if err := models.DB.Create(&record).Error; err != nil {
				stdLog.Printf("Failed to create daily log for %s: %v", email, err)
			}
		}
		stdLog.Printf("Seeded daily logs for: %s", email)
	}

	// 添加推荐佣金（上线按投资额 5% 计提，已存在则跳过）
	commissions := []struct {
		ReferrerEmail string
		MemberEmail   string
		Amount        float64
	}{
		{ReferrerEmail: leader.Email, MemberEmail: "alice@profitgrid.local", Amount: 250},
		{ReferrerEmail: "alice@profitgrid.local", MemberEmail: "bob@profitgrid.local", Amount: 100},
		{ReferrerEmail: "alice@profitgrid.local", MemberEmail: "carol@profitgrid.local", Amount: 75},
	}
	for _, com := range commissions {
		referrerID, ok1 := profileIDs[com.ReferrerEmail]
		memberID, ok2 := profileIDs[com.MemberEmail]
		if !ok1 || !ok2 {
			continue
		}
		var count int64
		models.DB.Model(&models.Commission{}).
			Where("referrer_id = ? AND member_id = ? AND type = ?", referrerID, memberID, constants.CommissionTypeReferral).
			Count(&count)
		if count > 0 {
			stdLog.Printf("Commission already exists: %s -> %s", com.ReferrerEmail, com.MemberEmail)
			continue
		}
		record := models.Commission{
			ReferrerID:     referrerID,
			MemberID:       memberID,
			Amount:         models.NewMoneyFromFloat(com.Amount),
			Type:           constants.CommissionTypeReferral,
			Description:    "投资推荐佣金",
			CommissionDate: time.Now().AddDate(0, 0, -30),
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to create commission %s -> %s: %v", com.ReferrerEmail, com.MemberEmail, err)
		} else {
			stdLog.Printf("Created commission: %s -> %s", com.ReferrerEmail, com.MemberEmail)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 1 Leader (leader@profitgrid.local / leader123)")
	fmt.Println("- 3 Members (password: member123)")
	fmt.Println("- 3 Investments")
	fmt.Println("- 21 Daily logs (7 days x 3 members)")
	fmt.Println("- 3 Referral commissions")
}
