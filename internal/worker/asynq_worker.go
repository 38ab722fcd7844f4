package worker

import (
	"context"
	"errors"

	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/provider"
	"github.com/abc-fitness/storefront/internal/queue"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSubscriberWelcome, c.handleSubscriberWelcome)
}

func (c *Consumer) handleSubscriberWelcome(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_subscriber_welcome_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseSubscriberWelcomePayload(task)
	if err != nil {
		logger.Warnw("worker_subscriber_welcome_unmarshal_failed", "error", err)
		return err
	}
	if c.Container == nil || c.SubscriptionService == nil {
		logger.Warnw("worker_subscriber_welcome_skip_service_nil", "email", payload.Email)
		return nil
	}
	email, err := service.NormalizeSubscriberEmail(payload.Email)
	if err != nil {
		logger.Debugw("worker_subscriber_welcome_skip_invalid_payload", "email", payload.Email)
		return nil
	}
	if c.SubscriptionService.IsWelcomed(ctx, email) {
		logger.Debugw("worker_subscriber_welcome_skip_already_welcomed", "email", email)
		return nil
	}
	if c.EmailService.Enabled() {
		if err := c.EmailService.SendSubscriberWelcome(ctx, email); err != nil {
			if !errors.Is(err, service.ErrEmailRecipientRejected) {
				logger.Warnw("worker_subscriber_welcome_send_failed", "email", email, "error", err)
				return err
			}
			logger.Warnw("worker_subscriber_welcome_recipient_rejected", "email", email, "error", err)
		}
	} else {
		logger.Debugw("worker_subscriber_welcome_email_disabled", "email", email)
	}
	if _, err := c.SubscriptionService.MarkWelcomed(ctx, email); err != nil {
		logger.Warnw("worker_subscriber_welcome_mark_failed", "email", email, "error", err)
		return err
	}
	logger.Infow("worker_subscriber_welcomed", "email", email)
	return nil
}
