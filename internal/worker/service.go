package worker

import (
	"context"
	"errors"
	"time"

	"github.com/profitgrid/internal/config"
	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	pendingLogCheckInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.DashboardService != nil {
		go s.runPendingLogCheckLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runPendingLogCheckLoop 周期巡检当日未提交收益记录的成员
// 仅产出运营侧告警日志，不主动触达成员。
func (s *Service) runPendingLogCheckLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.DashboardService == nil {
		return
	}
	runOnce := func() {
		overview, err := s.consumer.DashboardService.GetOverview(ctx, true)
		if err != nil {
			logger.Warnw("worker_pending_log_check_failed", "error", err)
			return
		}
		if overview.MembersPendingLog > 0 {
			logger.Infow("worker_pending_log_check",
				"date", overview.Date,
				"members_pending_log", overview.MembersPendingLog,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(pendingLogCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
