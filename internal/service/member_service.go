package service

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/profitgrid/internal/authz"
	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/queue"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// MemberService 成员管理服务
// 成员创建是一条多步操作：建档、传凭证、录投资、计佣金。
// 前三步任一失败即中止并返回失败步骤；佣金计提为尽力而为，失败只记日志。
type MemberService struct {
	cfg               *config.Config
	profileRepo       repository.ProfileRepository
	investmentRepo    repository.InvestmentRepository
	commissionService *CommissionService
	store             *storage.Store
	queueClient       *queue.Client
	authzService      *authz.Service
}

// NewMemberService 创建成员管理服务
func NewMemberService(
	cfg *config.Config,
	profileRepo repository.ProfileRepository,
	investmentRepo repository.InvestmentRepository,
	commissionService *CommissionService,
	store *storage.Store,
	queueClient *queue.Client,
	authzService *authz.Service,
) *MemberService {
	return &MemberService{
		cfg:               cfg,
		profileRepo:       profileRepo,
		investmentRepo:    investmentRepo,
		commissionService: commissionService,
		store:             store,
		queueClient:       queueClient,
		authzService:      authzService,
	}
}

// CreateMemberInput 成员创建输入
type CreateMemberInput struct {
	Email            string
	Password         string
	FullName         string
	Category         string
	ReferrerID       string
	InvestmentAmount string
	StartDate        *time.Time
	Proof            *multipart.FileHeader
}

// CreateMember 执行成员创建
// 返回结构化结果；失败时 Step 标识中止发生的步骤。
func (s *MemberService) CreateMember(input CreateMemberInput) (ActionResult, *models.Profile) {
	// 步骤一：入参校验，含凭证大小上限（在任何写入之前）
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return ResultFail(StepValidate, ErrInvalidEmail.Error()), nil
	}
	if strings.TrimSpace(input.Password) == "" || strings.TrimSpace(input.FullName) == "" {
		return ResultFail(StepValidate, "姓名与密码不能为空"), nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(input.InvestmentAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return ResultFail(StepValidate, ErrAmountInvalid.Error()), nil
	}
	if input.Proof != nil && input.Proof.Size > s.cfg.Upload.MaxSize {
		return ResultFail(StepValidate,
			fmt.Sprintf("凭证超过大小上限（最大 %d MB）", s.cfg.Upload.MaxSize/1024/1024)), nil
	}

	referrerID := strings.TrimSpace(input.ReferrerID)
	if referrerID != "" {
		referrer, err := s.profileRepo.GetByID(referrerID)
		if err != nil {
			return ResultFail(StepValidate, "上线档案查询失败"), nil
		}
		if referrer == nil {
			return ResultFail(StepValidate, ErrReferrerNotFound.Error()), nil
		}
	}

	exist, err := s.profileRepo.GetByEmail(email)
	if err != nil {
		return ResultFail(StepValidate, "邮箱查询失败"), nil
	}
	if exist != nil {
		return ResultFail(StepValidate, ErrEmailExists.Error()), nil
	}

	// 步骤二：上传投资凭证
	proofURL := ""
	if input.Proof != nil {
		url, err := s.store.Put(input.Proof, constants.BucketProofs)
		if err != nil {
			logger.Warnw("member_create_proof_upload_failed", "email", email, "error", err)
			return ResultFail(StepUploadProof, "凭证上传失败"), nil
		}
		proofURL = url
	}

	// 步骤三：创建身份与档案
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ResultFail(StepCreateIdentity, "密码加密失败"), nil
	}
	now := time.Now()
	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         constants.RoleMember,
		Category:     resolveCategory(input.Category),
		Status:       constants.ProfileStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if referrerID != "" {
		profile.ReferrerID = &referrerID
	}
	if err := s.profileRepo.Create(profile); err != nil {
		logger.Errorw("member_create_profile_failed", "email", email, "error", err)
		return ResultFail(StepCreateIdentity, "档案创建失败"), nil
	}
	if s.authzService != nil {
		if err := s.authzService.SetProfileRole(profile.ID, constants.RoleMember); err != nil {
			logger.Warnw("member_create_role_assign_failed", "profile_id", profile.ID, "error", err)
		}
	}

	// 步骤四：录入首笔投资
	startDate := now
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	investment := &models.Investment{
		MemberID:  profile.ID,
		Amount:    models.NewMoneyFromDecimal(amount),
		Status:    constants.InvestmentStatusActive,
		ProofURL:  proofURL,
		StartDate: startDate,
	}
	if err := s.investmentRepo.Create(investment); err != nil {
		logger.Errorw("member_create_investment_failed", "profile_id", profile.ID, "error", err)
		return ResultFail(StepInsertInvestment, "投资记录创建失败"), nil
	}

	// 步骤五：计提推荐佣金（尽力而为，失败不影响创建结果）
	if referrerID != "" {
		s.accrueReferralCommission(referrerID, profile, investment, amount)
	}

	return ResultOK("成员创建成功"), profile
}

// accrueReferralCommission 计提推荐佣金
// 队列可用时投递异步任务（不重试），否则同步落库；两种路径的失败都只记日志。
func (s *MemberService) accrueReferralCommission(referrerID string, profile *models.Profile, investment *models.Investment, amount decimal.Decimal) {
	rate := decimal.NewFromFloat(s.cfg.Referral.CommissionRatePercent)
	if rate.LessThanOrEqual(decimal.Zero) {
		return
	}
	commissionAmount := amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	if commissionAmount.LessThanOrEqual(decimal.Zero) {
		return
	}

	if s.queueClient.Enabled() {
		payload := queue.CommissionAccruePayload{
			ReferrerID:   referrerID,
			MemberID:     profile.ID,
			Amount:       commissionAmount.String(),
			InvestmentID: investment.ID,
		}
		if err := s.queueClient.EnqueueCommissionAccrue(payload); err != nil {
			logger.Warnw("member_create_commission_enqueue_failed",
				"referrer_id", referrerID, "member_id", profile.ID, "error", err)
		}
		return
	}

	description := fmt.Sprintf("新成员 %s 投资推荐佣金", profile.FullName)
	if _, err := s.commissionService.AccrueReferral(referrerID, profile.ID, commissionAmount, description); err != nil {
		logger.Warnw("member_create_commission_accrue_failed",
			"referrer_id", referrerID, "member_id", profile.ID, "error", err)
	}
}

// GetMember 获取成员档案（含上线）
func (s *MemberService) GetMember(id string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetWithReferrer(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// ListMembers 查询成员列表
func (s *MemberService) ListMembers(filter repository.ProfileListFilter) ([]models.Profile, int64, error) {
	return s.profileRepo.List(filter)
}

// UpdateMemberInput 成员更新输入
type UpdateMemberInput struct {
	FullName *string
	Category *string
	Status   *string
}

// UpdateMember 更新成员档案
func (s *MemberService) UpdateMember(id string, input UpdateMemberInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		profile.Category = resolveCategory(*input.Category)
	}
	if input.Status != nil {
		switch strings.ToLower(strings.TrimSpace(*input.Status)) {
		case constants.ProfileStatusActive:
			profile.Status = constants.ProfileStatusActive
		case constants.ProfileStatusDisabled:
			profile.Status = constants.ProfileStatusDisabled
		}
	}
	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListInvestments 查询成员投资记录
func (s *MemberService) ListInvestments(filter repository.InvestmentListFilter) ([]models.Investment, int64, error) {
	return s.investmentRepo.List(filter)
}

func resolveCategory(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "standard"
	}
	return value
}
