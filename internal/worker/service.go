package worker

import (
	"context"
	"errors"
	"time"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	welcomeBackfillInterval = 5 * time.Minute
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
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.SubscriptionService != nil {
		go s.runWelcomeBackfillLoop(ctx)
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

// runWelcomeBackfillLoop 补投递入队失败的欢迎任务
func (s *Service) runWelcomeBackfillLoop(ctx context.Context) {
	runOnce := func() {
		enqueued := s.consumer.backfillWelcome(ctx)
		if enqueued > 0 {
			logger.Infow("worker_subscriber_welcome_backfilled", "count", enqueued)
		}
	}
	runOnce()

	ticker := time.NewTicker(welcomeBackfillInterval)
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

// backfillWelcome 为尚未处理欢迎任务的订阅者重新入队，返回成功入队数
func (c *Consumer) backfillWelcome(ctx context.Context) int {
	if c == nil || c.Container == nil || c.SubscriptionService == nil || !c.QueueClient.Enabled() {
		return 0
	}
	enqueued := 0
	for _, email := range c.SubscriptionService.PendingWelcome(ctx) {
		payload := queue.SubscriberWelcomePayload{Email: email}
		if err := c.QueueClient.EnqueueSubscriberWelcome(ctx, payload); err != nil {
			if errors.Is(err, queue.ErrDuplicateTask) {
				continue
			}
			logger.Warnw("worker_subscriber_welcome_backfill_failed", "email", email, "error", err)
			continue
		}
		enqueued++
	}
	return enqueued
}
