package service

import (
	"mime/multipart"
	"testing"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupDailyLogServiceTest(t *testing.T) (*DailyLogService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := newServiceTestConfig(t)
	svc := NewDailyLogService(cfg,
		repository.NewDailyLogRepository(db),
		repository.NewProfileRepository(db),
		storage.NewStore(cfg))
	return svc, db
}

func TestSubmitLogSuccess(t *testing.T) {
	svc, db := setupDailyLogServiceTest(t)
	member := createTestProfile(t, db, "log_ok@example.com", constants.RoleMember, nil)
	logDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	result, record := svc.SubmitLog(SubmitLogInput{
		MemberID: member.ID,
		Amount:   "12.345",
		LogDate:  &logDate,
	})
	if !result.OK {
		t.Fatalf("submit failed: %+v", result)
	}
	if record == nil || record.ID == 0 {
		t.Fatalf("record should be persisted, got=%+v", record)
	}
	if got := record.ProfitAmount.String(); got != "12.35" {
		t.Fatalf("amount want 12.35 got %s", got)
	}
	if !record.LogDate.Equal(logDate) {
		t.Fatalf("log date want %v got %v", logDate, record.LogDate)
	}
}

func TestSubmitLogSameDayAllowsMultipleRecords(t *testing.T) {
	svc, db := setupDailyLogServiceTest(t)
	member := createTestProfile(t, db, "log_multi@example.com", constants.RoleMember, nil)
	logDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		result, _ := svc.SubmitLog(SubmitLogInput{MemberID: member.ID, Amount: "5", LogDate: &logDate})
		if !result.OK {
			t.Fatalf("submit %d failed: %+v", i, result)
		}
	}
	var count int64
	db.Model(&models.DailyLog{}).Where("member_id = ?", member.ID).Count(&count)
	if count != 2 {
		t.Fatalf("same-day records want 2 got %d", count)
	}
}

func TestSubmitLogNegativeAmount(t *testing.T) {
	svc, db := setupDailyLogServiceTest(t)
	member := createTestProfile(t, db, "log_neg@example.com", constants.RoleMember, nil)

	result, _ := svc.SubmitLog(SubmitLogInput{MemberID: member.ID, Amount: "-1"})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("negative amount must fail at validate, got=%+v", result)
	}
}

func TestSubmitLogOversizeScreenshotRejectedBeforeAnyWrite(t *testing.T) {
	svc, db := setupDailyLogServiceTest(t)
	member := createTestProfile(t, db, "log_oversize@example.com", constants.RoleMember, nil)

	result, _ := svc.SubmitLog(SubmitLogInput{
		MemberID:   member.ID,
		Amount:     "10",
		Screenshot: &multipart.FileHeader{Filename: "shot.png", Size: 4*1024*1024 + 1},
	})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("oversize screenshot must fail at validate, got=%+v", result)
	}
	var count int64
	db.Model(&models.DailyLog{}).Count(&count)
	if count != 0 {
		t.Fatalf("no log row may exist, got %d", count)
	}
}

func TestSubmitLogUnknownMember(t *testing.T) {
	svc, _ := setupDailyLogServiceTest(t)
	result, _ := svc.SubmitLog(SubmitLogInput{MemberID: uuid.NewString(), Amount: "10"})
	if result.OK || result.Step != StepValidate {
		t.Fatalf("unknown member must fail at validate, got=%+v", result)
	}
}

func TestListGallerySkipsRecordsWithoutScreenshot(t *testing.T) {
	svc, db := setupDailyLogServiceTest(t)
	member := createTestProfile(t, db, "gallery@example.com", constants.RoleMember, nil)
	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	records := []models.DailyLog{
		{MemberID: member.ID, ProfitAmount: models.NewMoneyFromFloat(10), LogDate: day},
		{MemberID: member.ID, ProfitAmount: models.NewMoneyFromFloat(20), ScreenshotURL: "/uploads/results/2026/08/a.png", LogDate: day},
	}
	if err := db.Create(&records).Error; err != nil {
		t.Fatalf("seed logs failed: %v", err)
	}

	items, _, err := svc.ListGallery(repository.DailyLogListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list gallery failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("gallery items want 1 got %d", len(items))
	}
	if items[0].URL != "/uploads/results/2026/08/a.png" || items[0].MemberName != member.FullName {
		t.Fatalf("gallery item unexpected: %+v", items[0])
	}
}
