package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vcaremart/offerlink/internal/config"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	offerStatusSyncInterval = time.Minute
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
	if s.consumer != nil && s.consumer.OfferSyncService != nil {
		go s.runOfferStatusSyncLoop(ctx)
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

// runOfferStatusSyncLoop 兜底的存储状态同步。
// 读路径自带同步，这里只是保证无流量时段存储状态也不会长期滞后。
func (s *Service) runOfferStatusSyncLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.OfferSyncService == nil {
		return
	}
	runOnce := func() {
		result, err := s.consumer.OfferSyncService.Synchronize()
		if err != nil {
			logger.Warnw("worker_offer_status_sync_loop_failed", "error", err)
			return
		}
		if result.Total() > 0 {
			logger.Infow("worker_offer_status_sync_loop_done", "changed", result.Total())
		}
	}
	runOnce()

	ticker := time.NewTicker(offerStatusSyncInterval)
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
