package service

import (
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Investment{},
		&models.DailyLog{},
		&models.Commission{},
		&models.WithdrawRequest{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newServiceTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 4 * 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{".jpg", ".png"}
	cfg.Referral.CommissionRatePercent = 5
	cfg.Storage.Dir = t.TempDir()
	cfg.JWT.SecretKey = "service-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	return cfg
}

func createTestProfile(t *testing.T, db *gorm.DB, email, role string, referrerID *string) *models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test " + role,
		Role:         role,
		ReferrerID:   referrerID,
		Status:       constants.ProfileStatusActive,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	return profile
}

func setupMemberServiceTest(t *testing.T) (*MemberService, *gorm.DB, *config.Config) {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := newServiceTestConfig(t)
	profileRepo := repository.NewProfileRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	commissionService := NewCommissionService(commissionRepo, profileRepo)
	svc := NewMemberService(cfg, profileRepo, investmentRepo, commissionService,
		storage.NewStore(cfg), nil, nil)
	return svc, db, cfg
}

func TestCreateMemberWithReferralCommission(t *testing.T) {
	svc, db, _ := setupMemberServiceTest(t)
	leader := createTestProfile(t, db, "leader_member_svc@example.com", constants.RoleLeader, nil)

	result, profile := svc.CreateMember(CreateMemberInput{
		Email:            "New.Member@Example.com",
		Password:         "member123",
		FullName:         "New Member",
		Category:         "VIP",
		ReferrerID:       leader.ID,
		InvestmentAmount: "1000",
	})
	if !result.OK {
		t.Fatalf("create member failed: %+v", result)
	}
	if profile == nil || profile.Email != "new.member@example.com" {
		t.Fatalf("email should be normalized, got=%+v", profile)
	}
	if profile.Role != constants.RoleMember || profile.Category != "vip" {
		t.Fatalf("role/category unexpected: %+v", profile)
	}
	if profile.ReferrerID == nil || *profile.ReferrerID != leader.ID {
		t.Fatalf("referrer want %s got %v", leader.ID, profile.ReferrerID)
	}

	var investment models.Investment
	if err := db.Where("member_id = ?", profile.ID).First(&investment).Error; err != nil {
		t.Fatalf("investment row missing: %v", err)
	}
	if got := investment.Amount.String(); got != "1000.00" {
		t.Fatalf("investment amount want 1000.00 got %s", got)
	}
	if investment.Status != constants.InvestmentStatusActive {
		t.Fatalf("investment status want active got %s", investment.Status)
	}

	// 队列未启用时佣金同步计提：1000 * 5% = 50
	var commission models.Commission
	if err := db.Where("referrer_id = ?", leader.ID).First(&commission).Error; err != nil {
		t.Fatalf("commission row missing: %v", err)
	}
	if got := commission.Amount.String(); got != "50.00" {
		t.Fatalf("commission amount want 50.00 got %s", got)
	}
	if commission.Type != constants.CommissionTypeReferral || commission.MemberID != profile.ID {
		t.Fatalf("commission row unexpected: %+v", commission)
	}
}

func TestCreateMemberOversizeProofRejectedBeforeAnyWrite(t *testing.T) {
	svc, db, cfg := setupMemberServiceTest(t)
	leader := createTestProfile(t, db, "leader_oversize@example.com", constants.RoleLeader, nil)

	result, profile := svc.CreateMember(CreateMemberInput{
		Email:            "oversize@example.com",
		Password:         "member123",
		FullName:         "Oversize",
		ReferrerID:       leader.ID,
		InvestmentAmount: "500",
		Proof:            &multipart.FileHeader{Filename: "proof.png", Size: cfg.Upload.MaxSize + 1},
	})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("oversize proof must fail at validate, got=%+v", result)
	}
	if profile != nil {
		t.Fatalf("no profile should be returned, got=%+v", profile)
	}

	var profiles int64
	db.Model(&models.Profile{}).Count(&profiles)
	if profiles != 1 {
		t.Fatalf("profiles count want 1 (leader only) got %d", profiles)
	}
	var investments int64
	db.Model(&models.Investment{}).Count(&investments)
	if investments != 0 {
		t.Fatalf("no investment row may exist, got %d", investments)
	}
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	svc, db, _ := setupMemberServiceTest(t)
	createTestProfile(t, db, "taken@example.com", constants.RoleMember, nil)

	result, _ := svc.CreateMember(CreateMemberInput{
		Email:            "taken@example.com",
		Password:         "member123",
		FullName:         "Dup",
		InvestmentAmount: "100",
	})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("duplicate email must fail at validate, got=%+v", result)
	}
	if result.Message != ErrEmailExists.Error() {
		t.Fatalf("message want %q got %q", ErrEmailExists.Error(), result.Message)
	}
}

func TestCreateMemberUnknownReferrer(t *testing.T) {
	svc, _, _ := setupMemberServiceTest(t)

	result, _ := svc.CreateMember(CreateMemberInput{
		Email:            "noref@example.com",
		Password:         "member123",
		FullName:         "No Ref",
		ReferrerID:       uuid.NewString(),
		InvestmentAmount: "100",
	})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("unknown referrer must fail at validate, got=%+v", result)
	}
	if result.Message != ErrReferrerNotFound.Error() {
		t.Fatalf("message want %q got %q", ErrReferrerNotFound.Error(), result.Message)
	}
}

func TestCreateMemberCommissionFailureDoesNotAbort(t *testing.T) {
	svc, db, _ := setupMemberServiceTest(t)
	leader := createTestProfile(t, db, "leader_comm_fail@example.com", constants.RoleLeader, nil)

	// 佣金表缺失使末步计提失败；创建本身仍须成功
	if err := db.Migrator().DropTable(&models.Commission{}); err != nil {
		t.Fatalf("drop commissions table failed: %v", err)
	}

	result, profile := svc.CreateMember(CreateMemberInput{
		Email:            "commfail@example.com",
		Password:         "member123",
		FullName:         "Comm Fail",
		ReferrerID:       leader.ID,
		InvestmentAmount: "1000",
	})
	if !result.OK {
		t.Fatalf("commission failure must not abort creation, got=%+v", result)
	}
	var investment models.Investment
	if err := db.Where("member_id = ?", profile.ID).First(&investment).Error; err != nil {
		t.Fatalf("investment must be persisted despite commission failure: %v", err)
	}
}

func TestUpdateMemberStatusTransitions(t *testing.T) {
	svc, db, _ := setupMemberServiceTest(t)
	member := createTestProfile(t, db, "update_me@example.com", constants.RoleMember, nil)

	disabled := constants.ProfileStatusDisabled
	updated, err := svc.UpdateMember(member.ID, UpdateMemberInput{Status: &disabled})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.ProfileStatusDisabled {
		t.Fatalf("status want disabled got %s", updated.Status)
	}

	// 非法状态值被忽略
	bogus := "banned"
	updated, err = svc.UpdateMember(member.ID, UpdateMemberInput{Status: &bogus})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.ProfileStatusDisabled {
		t.Fatalf("unknown status must be ignored, got %s", updated.Status)
	}

	if _, err := svc.UpdateMember(uuid.NewString(), UpdateMemberInput{}); err != ErrNotFound {
		t.Fatalf("unknown member want ErrNotFound got %v", err)
	}
}
