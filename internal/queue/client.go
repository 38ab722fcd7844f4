package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	welcomeMaxRetry = 5
	// welcomeRetention 完成后保留任务记录的时长，期间同一 TaskID 不会重复入队
	welcomeRetention = 24 * time.Hour
)

// ErrDuplicateTask 同一任务 ID 已在队列中或仍在保留期内
var ErrDuplicateTask = errors.New("task already queued")

// Client 队列客户端封装，未启用时所有投递操作为空操作
type Client struct {
	client       *asynq.Client
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{defaultQueue: DefaultQueue}
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		defaultQueue: DefaultQueue,
	}
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueSubscriberWelcome 推送订阅欢迎任务；同一邮箱重复入队返回 ErrDuplicateTask
func (c *Client) EnqueueSubscriberWelcome(ctx context.Context, payload SubscriberWelcomePayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewSubscriberWelcomeTask(payload)
	if err != nil {
		return err
	}
	options := append(c.welcomeOptions(payload.Email), opts...)
	if _, err := c.client.EnqueueContext(ctx, task, options...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, SubscriberWelcomeTaskID(payload.Email))
		}
		return err
	}
	return nil
}

func (c *Client) welcomeOptions(email string) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(welcomeMaxRetry),
		asynq.Retention(welcomeRetention),
		asynq.TaskID(SubscriberWelcomeTaskID(email)),
	}
}

// BuildServerConfig 生成队列服务配置，失败任务统一记录日志
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 5
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency:  concurrency,
		Queues:       queues,
		ErrorHandler: asynq.ErrorHandlerFunc(logTaskFailure),
	}
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskType := ""
	if task != nil {
		taskType = task.Type()
	}
	logger.Warnw("queue_task_failed", "type", taskType, "retried", retried, "max_retry", maxRetry, "error", err)
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
