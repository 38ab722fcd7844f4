package repository

import (
	"context"
	"sync"
)

// MemoryKVRepository 内存实现（单进程，重启丢失）
type MemoryKVRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKVRepository 创建内存键值仓库
func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{entries: make(map[string]string)}
}

// Get 获取键值
func (r *MemoryKVRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.entries[key]
	return value, ok, nil
}

// Set 写入键值
func (r *MemoryKVRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

// Len 当前键数量
func (r *MemoryKVRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Ping 内存存储始终可用
func (r *MemoryKVRepository) Ping(_ context.Context) error {
	return nil
}
