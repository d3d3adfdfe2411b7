package service

import (
	"mime/multipart"
	"strings"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"github.com/shopspring/decimal"
)

// WithdrawService 提现申请服务
type WithdrawService struct {
	cfg          *config.Config
	withdrawRepo repository.WithdrawRepository
	profileRepo  repository.ProfileRepository
	store        *storage.Store
}

// NewWithdrawService 创建提现服务
func NewWithdrawService(
	cfg *config.Config,
	withdrawRepo repository.WithdrawRepository,
	profileRepo repository.ProfileRepository,
	store *storage.Store,
) *WithdrawService {
	return &WithdrawService{
		cfg:          cfg,
		withdrawRepo: withdrawRepo,
		profileRepo:  profileRepo,
		store:        store,
	}
}

// CreateRequest 成员发起提现申请
func (s *WithdrawService) CreateRequest(memberID, amountStr string) (*models.WithdrawRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrAmountInvalid
	}
	member, err := s.profileRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}

	request := &models.WithdrawRequest{
		MemberID: memberID,
		Amount:   models.NewMoneyFromDecimal(amount),
		Status:   constants.WithdrawStatusPending,
	}
	if err := s.withdrawRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Review 审核提现申请
// 通过时可附转账凭证；凭证大小上限在任何写入之前检查。
func (s *WithdrawService) Review(id uint, approve bool, proof *multipart.FileHeader) (*models.WithdrawRequest, error) {
	if proof != nil && proof.Size > s.cfg.Upload.MaxSize {
		return nil, storage.ErrFileTooLarge
	}

	request, err := s.withdrawRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if request.Status != constants.WithdrawStatusPending {
		return nil, ErrWithdrawNotPending
	}

	if approve && proof != nil {
		url, err := s.store.Put(proof, constants.BucketProofs)
		if err != nil {
			logger.Warnw("withdraw_review_proof_upload_failed", "withdraw_id", id, "error", err)
			return nil, err
		}
		request.ProofURL = url
	}

	if approve {
		request.Status = constants.WithdrawStatusApproved
	} else {
		request.Status = constants.WithdrawStatusRejected
	}
	if err := s.withdrawRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

// List 查询提现申请列表
func (s *WithdrawService) List(filter repository.WithdrawListFilter) ([]models.WithdrawRequest, int64, error) {
	return s.withdrawRepo.List(filter)
}
