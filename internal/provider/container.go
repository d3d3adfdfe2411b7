package provider

import (
	"context"
	"time"

	"github.com/profitgrid/internal/authz"
	"github.com/profitgrid/internal/cache"
	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/queue"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/service"
	"github.com/profitgrid/internal/session"
	"github.com/profitgrid/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       *storage.Store
	SessionHub  *session.Hub

	// Repositories
	ProfileRepo    repository.ProfileRepository
	InvestmentRepo repository.InvestmentRepository
	DailyLogRepo   repository.DailyLogRepository
	CommissionRepo repository.CommissionRepository
	WithdrawRepo   repository.WithdrawRepository
	DashboardRepo  repository.DashboardRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	MemberService     *service.MemberService
	DailyLogService   *service.DailyLogService
	CommissionService *service.CommissionService
	WithdrawService   *service.WithdrawService
	DashboardService  *service.DashboardService
	NetworkService    *service.NetworkService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Store:       storage.NewStore(cfg),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化会话中心
	c.initSessionHub()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProfileRepo = repository.NewProfileRepository(db)
	c.InvestmentRepo = repository.NewInvestmentRepository(db)
	c.DailyLogRepo = repository.NewDailyLogRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.WithdrawRepo = repository.NewWithdrawRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

// initSessionHub 装配档案同步状态机
func (c *Container) initSessionHub() {
	c.SessionHub = session.NewHub(c.profileLookup, session.Options{
		LookupAttempts: c.Config.Session.LookupAttempts,
		LookupBackoff:  time.Duration(c.Config.Session.LookupBackoffMS) * time.Millisecond,
		Failsafe:       time.Duration(c.Config.Session.FailsafeSeconds) * time.Second,
		SnapshotBuffer: c.Config.Session.SnapshotBufferSz,
	})
}

// profileLookup 会话状态机的档案查询函数
// 把仓库的 (nil, nil) 约定翻译为终态 ErrProfileNotFound，其余错误视为瞬时失败。
func (c *Container) profileLookup(ctx context.Context, identityID string) (*models.Profile, error) {
	profile, err := c.ProfileRepo.GetByID(identityID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, session.ErrProfileNotFound
	}
	return profile, nil
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.ProfileRepo, c.SessionHub)
	c.CommissionService = service.NewCommissionService(c.CommissionRepo, c.ProfileRepo)
	c.MemberService = service.NewMemberService(
		c.Config, c.ProfileRepo, c.InvestmentRepo, c.CommissionService,
		c.Store, c.QueueClient, c.AuthzService,
	)
	c.DailyLogService = service.NewDailyLogService(c.Config, c.DailyLogRepo, c.ProfileRepo, c.Store)
	c.WithdrawService = service.NewWithdrawService(c.Config, c.WithdrawRepo, c.ProfileRepo, c.Store)
	c.DashboardService = service.NewDashboardService(c.Config, c.DashboardRepo)
	c.NetworkService = service.NewNetworkService(c.ProfileRepo, c.DailyLogRepo, c.CommissionRepo, c.InvestmentRepo)

	c.syncProfileRoles()
}

// syncProfileRoles 为尚无授权角色的档案补齐角色绑定
// 覆盖种子导入与历史数据两种来源，幂等执行。
func (c *Container) syncProfileRoles() {
	profiles, err := c.ProfileRepo.ListAll()
	if err != nil {
		logger.Warnw("provider_sync_profile_roles_list_failed", "error", err)
		return
	}
	for i := range profiles {
		profile := profiles[i]
		roles, err := c.AuthzService.GetProfileRoles(profile.ID)
		if err != nil {
			logger.Warnw("provider_sync_profile_roles_query_failed", "profile_id", profile.ID, "error", err)
			continue
		}
		if len(roles) > 0 {
			continue
		}
		if err := c.AuthzService.SetProfileRole(profile.ID, profile.Role); err != nil {
			logger.Warnw("provider_sync_profile_roles_assign_failed", "profile_id", profile.ID, "error", err)
		}
	}
}
