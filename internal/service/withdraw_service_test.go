package service

import (
	"errors"
	"mime/multipart"
	"testing"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"gorm.io/gorm"
)

func setupWithdrawServiceTest(t *testing.T) (*WithdrawService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := newServiceTestConfig(t)
	svc := NewWithdrawService(cfg,
		repository.NewWithdrawRepository(db),
		repository.NewProfileRepository(db),
		storage.NewStore(cfg))
	return svc, db
}

func TestWithdrawCreateAndReview(t *testing.T) {
	svc, db := setupWithdrawServiceTest(t)
	member := createTestProfile(t, db, "withdraw@example.com", constants.RoleMember, nil)

	request, err := svc.CreateRequest(member.ID, "150.50")
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if request.Status != constants.WithdrawStatusPending {
		t.Fatalf("status want pending got %s", request.Status)
	}
	if got := request.Amount.String(); got != "150.50" {
		t.Fatalf("amount want 150.50 got %s", got)
	}

	reviewed, err := svc.Review(request.ID, true, nil)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.WithdrawStatusApproved {
		t.Fatalf("status want approved got %s", reviewed.Status)
	}

	// 已处理的申请不可再次审核
	if _, err := svc.Review(request.ID, false, nil); !errors.Is(err, ErrWithdrawNotPending) {
		t.Fatalf("want ErrWithdrawNotPending got %v", err)
	}
}

func TestWithdrawReviewReject(t *testing.T) {
	svc, db := setupWithdrawServiceTest(t)
	member := createTestProfile(t, db, "withdraw_reject@example.com", constants.RoleMember, nil)

	request, err := svc.CreateRequest(member.ID, "80")
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	reviewed, err := svc.Review(request.ID, false, nil)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.WithdrawStatusRejected {
		t.Fatalf("status want rejected got %s", reviewed.Status)
	}
}

func TestWithdrawReviewOversizeProofLeavesRequestPending(t *testing.T) {
	svc, db := setupWithdrawServiceTest(t)
	member := createTestProfile(t, db, "withdraw_oversize@example.com", constants.RoleMember, nil)

	request, err := svc.CreateRequest(member.ID, "100")
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	proof := &multipart.FileHeader{Filename: "proof.png", Size: 4*1024*1024 + 1}
	if _, err := svc.Review(request.ID, true, proof); !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("want ErrFileTooLarge got %v", err)
	}

	var stored models.WithdrawRequest
	if err := db.First(&stored, request.ID).Error; err != nil {
		t.Fatalf("load request failed: %v", err)
	}
	if stored.Status != constants.WithdrawStatusPending {
		t.Fatalf("oversize proof must not change status, got %s", stored.Status)
	}
}

func TestWithdrawCreateInvalidAmount(t *testing.T) {
	svc, db := setupWithdrawServiceTest(t)
	member := createTestProfile(t, db, "withdraw_bad@example.com", constants.RoleMember, nil)

	if _, err := svc.CreateRequest(member.ID, "0"); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("zero amount want ErrAmountInvalid got %v", err)
	}
	if _, err := svc.CreateRequest(member.ID, "abc"); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("bad amount want ErrAmountInvalid got %v", err)
	}
}
