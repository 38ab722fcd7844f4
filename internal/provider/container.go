package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/abc-fitness/storefront/internal/cache"
	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/models"
	"github.com/abc-fitness/storefront/internal/queue"
	"github.com/abc-fitness/storefront/internal/repository"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	QueueClient *queue.Client

	// Repositories
	KVStore repository.KVStore

	// Services
	CartService         *service.CartService
	SubscriptionService *service.SubscriptionService
	EmailService        *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	c := &Container{
		Config:      cfg,
		RedisClient: cache.NewRedisClient(&cfg.Redis),
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	// 1. 初始化存储后端
	if err := c.initStorage(); err != nil {
		return nil, err
	}

	// 2. 初始化 Services
	c.initServices()

	return c, nil
}

// NewContainerWithStore 使用指定存储构建容器
func NewContainerWithStore(cfg *config.Config, store repository.KVStore) *Container {
	c := &Container{
		Config:      cfg,
		KVStore:     store,
		QueueClient: queue.NewClient(nil),
	}
	c.initServices()
	return c
}

func (c *Container) initStorage() error {
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	switch driver {
	case constants.StorageDriverMemory:
		c.KVStore = repository.NewMemoryKVRepository()
	case "", constants.StorageDriverDatabase:
		db, err := models.OpenDB(c.Config.Database.Driver, c.Config.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           c.Config.Database.Pool.MaxOpenConns,
			MaxIdleConns:           c.Config.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: c.Config.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: c.Config.Database.Pool.ConnMaxIdleTimeSeconds,
		}, c.Config.Server.Mode == "debug")
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		c.DB = db
		c.KVStore = repository.NewKVRepository(db)
	case constants.StorageDriverRedis:
		if c.RedisClient == nil {
			return fmt.Errorf("storage driver redis requires redis.enabled")
		}
		ttl := time.Duration(c.Config.Cart.TTLDays) * 24 * time.Hour
		c.KVStore = cache.NewRedisKVStore(c.RedisClient, c.Config.Redis.Prefix, ttl)
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Config.Storage.Driver)
	}
	logger.Infow("provider_storage_ready", "driver", driver)
	return nil
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CartService = service.NewCartService(c.KVStore, c.Config.Cart.StorageKey,
		service.WithServiceNotifier(service.LogNotifier{}),
	)
	c.SubscriptionService = service.NewSubscriptionService(
		c.KVStore,
		c.Config.Subscription.StorageKey,
		c.Config.Subscription.WelcomedKey,
		c.QueueClient,
	)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warnw("provider_close_redis_failed", "error", err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
