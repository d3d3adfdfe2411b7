package router

import (
	"fmt"
	"strings"

	"github.com/profitgrid/internal/cache"
	"github.com/profitgrid/internal/config"
	adminhandlers "github.com/profitgrid/internal/http/handlers/admin"
	publichandlers "github.com/profitgrid/internal/http/handlers/public"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按成员端/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pg"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过于频繁，请稍后再试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的截图与凭证）
	r.Static("/uploads", c.Store.BaseDir())

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口（无需登录）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/link/consume", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.ConsumeLoginLink)
		}

		// 成员接口（需鉴权）
		authed := apiV1.Group("")
		authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.ProfileRepo), RBACMiddleware(c.AuthzService))
		{
			authed.POST("/auth/logout", publicHandler.Logout)
			authed.GET("/me", publicHandler.GetMyProfile)
			authed.GET("/me/session", publicHandler.GetSession)
			authed.POST("/me/session/refresh", publicHandler.RefreshSession)
			authed.GET("/me/earnings", publicHandler.GetMyEarnings)
			authed.GET("/me/investments", publicHandler.GetMyInvestments)
			authed.GET("/me/commissions", publicHandler.GetMyCommissions)
			authed.GET("/me/logs", publicHandler.GetMyLogs)
			authed.POST("/me/logs", publicHandler.SubmitMyLog)
			authed.GET("/me/withdrawals", publicHandler.GetMyWithdrawals)
			authed.POST("/me/withdrawals", publicHandler.CreateMyWithdraw)
		}

		// 管理端接口（leader 角色）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.ProfileRepo), RBACMiddleware(c.AuthzService))
		{
			// 仪表盘
			admin.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
			admin.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
			admin.GET("/dashboard/top-earners", adminHandler.GetDashboardTopEarners)

			// 成员管理
			admin.POST("/members", adminHandler.CreateMember)
			admin.GET("/members", adminHandler.GetMembers)
			admin.GET("/members/:id", adminHandler.GetMember)
			admin.PATCH("/members/:id", adminHandler.UpdateMember)
			admin.GET("/members/:id/investments", adminHandler.GetMemberInvestments)
			admin.GET("/members/:id/logs", adminHandler.GetMemberLogs)
			admin.POST("/members/:id/logs", adminHandler.SubmitMemberLog)
			admin.POST("/members/:id/login-link", adminHandler.IssueMemberLoginLink)

			// 推荐网络
			admin.GET("/network/tree", adminHandler.GetNetworkTree)

			// 佣金管理
			admin.GET("/commissions", adminHandler.GetCommissions)
			admin.POST("/commissions", adminHandler.CreateManualCommission)

			// 提现管理
			admin.GET("/withdrawals", adminHandler.GetWithdrawals)
			admin.POST("/withdrawals/:id/review", adminHandler.ReviewWithdraw)

			// 收益截图画廊
			admin.GET("/gallery", adminHandler.GetGallery)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
