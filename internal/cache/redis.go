package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abc-fitness/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "abc"

// NewRedisClient 根据配置创建 Redis 客户端，未启用时返回 nil
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisKVStore 基于 Redis 的键值存储
type RedisKVStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisKVStore 创建 Redis 键值存储，ttl <= 0 表示永不过期
func NewRedisKVStore(client *redis.Client, prefix string, ttl time.Duration) *RedisKVStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisKVStore{client: client, prefix: prefix, ttl: ttl}
}

// Enabled 判断存储是否可用
func (s *RedisKVStore) Enabled() bool {
	return s != nil && s.client != nil
}

// Get 获取键值
func (s *RedisKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if !s.Enabled() {
		return "", false, errRedisDisabled
	}
	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set 写入键值
func (s *RedisKVStore) Set(ctx context.Context, key, value string) error {
	if !s.Enabled() {
		return errRedisDisabled
	}
	return s.client.Set(ctx, s.buildKey(key), value, s.ttl).Err()
}

// Ping 连通性检查
func (s *RedisKVStore) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return errRedisDisabled
	}
	return s.client.Ping(ctx).Err()
}

func (s *RedisKVStore) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return fmt.Sprintf("%s:%s", s.prefix, trimmed)
}

var errRedisDisabled = errors.New("redis disabled")
