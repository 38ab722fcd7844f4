package repository

import (
	"context"
	"errors"
)

// ErrStoreUnavailable 存储后端未初始化
var ErrStoreUnavailable = errors.New("kv store unavailable")

// Pinger 可做连通性检查的存储
type Pinger interface {
	Ping(ctx context.Context) error
}
