package service

import (
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/referral"
	"github.com/profitgrid/internal/repository"

	"github.com/shopspring/decimal"
)

// NetworkService 推荐网络服务
// 将扁平档案集合重建为层级树，并提供单成员的收益明细。
type NetworkService struct {
	profileRepo    repository.ProfileRepository
	logRepo        repository.DailyLogRepository
	commissionRepo repository.CommissionRepository
	investmentRepo repository.InvestmentRepository
}

// NewNetworkService 创建推荐网络服务
func NewNetworkService(
	profileRepo repository.ProfileRepository,
	logRepo repository.DailyLogRepository,
	commissionRepo repository.CommissionRepository,
	investmentRepo repository.InvestmentRepository,
) *NetworkService {
	return &NetworkService{
		profileRepo:    profileRepo,
		logRepo:        logRepo,
		commissionRepo: commissionRepo,
		investmentRepo: investmentRepo,
	}
}

// NetworkTreeResponse 推荐网络树响应
type NetworkTreeResponse struct {
	Root      *referral.TreeNode `json:"root"`
	NodeCount int                `json:"node_count"`
}

// BuildTree 重建推荐网络树
func (s *NetworkService) BuildTree() (*NetworkTreeResponse, error) {
	profiles, err := s.profileRepo.ListAll()
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListAll()
	if err != nil {
		return nil, err
	}
	commissions, err := s.commissionRepo.ListAll()
	if err != nil {
		return nil, err
	}

	root := referral.BuildTree(profiles, logs, commissions)
	return &NetworkTreeResponse{
		Root:      root,
		NodeCount: referral.CountNodes(root),
	}, nil
}

// MemberDetail 单成员收益明细
type MemberDetail struct {
	Profile       *models.Profile     `json:"profile"`
	Investments   []models.Investment `json:"investments"`
	TotalInvested models.Money        `json:"total_invested"`
	LogProfit     models.Money        `json:"log_profit"`
	Commission    models.Money        `json:"commission"`
	TotalProfit   models.Money        `json:"total_profit"`
}

// GetMemberDetail 获取单成员的档案、投资与收益汇总
// 汇总口径与树节点一致：自身收益记录 + 作为上线挣得的佣金。
func (s *NetworkService) GetMemberDetail(memberID string) (*MemberDetail, error) {
	profile, err := s.profileRepo.GetWithReferrer(memberID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	investments, err := s.investmentRepo.ListByMember(memberID)
	if err != nil {
		return nil, err
	}
	invested := decimal.Zero
	for _, item := range investments {
		invested = invested.Add(item.Amount.Decimal)
	}

	logProfit, err := s.logRepo.SumProfit(memberID, nil, nil)
	if err != nil {
		return nil, err
	}
	commission, err := s.commissionRepo.SumByReferrer(memberID)
	if err != nil {
		return nil, err
	}

	return &MemberDetail{
		Profile:       profile,
		Investments:   investments,
		TotalInvested: models.NewMoneyFromDecimal(invested),
		LogProfit:     models.NewMoneyFromDecimal(logProfit),
		Commission:    models.NewMoneyFromDecimal(commission),
		TotalProfit:   models.NewMoneyFromDecimal(logProfit.Add(commission)),
	}, nil
}
