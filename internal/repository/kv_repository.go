package repository

import (
	"context"
	"errors"
	"time"

	"github.com/abc-fitness/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore 键值存储接口（购物车、订阅列表等持久化契约）
type KVStore interface {
	// Get 读取键值，不存在时 found 为 false
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set 整体覆盖写入键值
	Set(ctx context.Context, key, value string) error
}

// GormKVRepository GORM 实现
type GormKVRepository struct {
	db *gorm.DB
}

// NewKVRepository 创建键值仓库
func NewKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

// Get 获取键值
func (r *GormKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r == nil || r.db == nil {
		return "", false, ErrStoreUnavailable
	}
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 写入或覆盖键值
func (r *GormKVRepository) Set(ctx context.Context, key, value string) error {
	if r == nil || r.db == nil {
		return ErrStoreUnavailable
	}
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Ping 连通性检查
func (r *GormKVRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return ErrStoreUnavailable
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
