package service

import (
	"strings"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"

	"github.com/shopspring/decimal"
)

// CommissionService 佣金服务
type CommissionService struct {
	commissionRepo repository.CommissionRepository
	profileRepo    repository.ProfileRepository
}

// NewCommissionService 创建佣金服务
func NewCommissionService(commissionRepo repository.CommissionRepository, profileRepo repository.ProfileRepository) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		profileRepo:    profileRepo,
	}
}

// AccrueReferral 计提推荐佣金
// 由成员创建 saga 的末步（或队列任务）调用。
func (s *CommissionService) AccrueReferral(referrerID, memberID string, amount decimal.Decimal, description string) (*models.Commission, error) {
	referrer, err := s.profileRepo.GetByID(referrerID)
	if err != nil {
		return nil, err
	}
	if referrer == nil {
		return nil, ErrReferrerNotFound
	}

	commission := &models.Commission{
		ReferrerID:     referrerID,
		MemberID:       memberID,
		Amount:         models.NewMoneyFromDecimal(amount),
		Type:           constants.CommissionTypeReferral,
		Description:    description,
		CommissionDate: time.Now(),
	}
	if err := s.commissionRepo.Create(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// CreateManualInput 手工佣金录入输入
type CreateManualInput struct {
	ReferrerID  string
	MemberID    string
	Amount      string
	Description string
	Date        *time.Time
}

// CreateManual 手工录入佣金
func (s *CommissionService) CreateManual(input CreateManualInput) (*models.Commission, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrAmountInvalid
	}

	referrer, err := s.profileRepo.GetByID(input.ReferrerID)
	if err != nil {
		return nil, err
	}
	if referrer == nil {
		return nil, ErrReferrerNotFound
	}
	if strings.TrimSpace(input.MemberID) != "" {
		member, err := s.profileRepo.GetByID(input.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, ErrNotFound
		}
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	commission := &models.Commission{
		ReferrerID:     input.ReferrerID,
		MemberID:       input.MemberID,
		Amount:         models.NewMoneyFromDecimal(amount),
		Type:           constants.CommissionTypeManual,
		Description:    strings.TrimSpace(input.Description),
		CommissionDate: date,
	}
	if err := s.commissionRepo.Create(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// List 查询佣金列表
func (s *CommissionService) List(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.List(filter)
}

// SumByReferrer 统计某上线挣得的佣金总额
func (s *CommissionService) SumByReferrer(referrerID string) (decimal.Decimal, error) {
	return s.commissionRepo.SumByReferrer(referrerID)
}
