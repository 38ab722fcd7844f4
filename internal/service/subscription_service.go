package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/queue"
	"github.com/abc-fitness/storefront/internal/repository"
)

var subscriberEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubscribeResult 订阅结果
type SubscribeResult struct {
	Email   string `json:"email"`
	Created bool   `json:"created"` // false 表示此前已订阅
}

// SubscriptionService 邮件订阅服务
type SubscriptionService struct {
	store       repository.KVStore
	key         string
	welcomedKey string
	queueClient *queue.Client
	mu          sync.Mutex
}

// NewSubscriptionService 创建订阅服务
func NewSubscriptionService(store repository.KVStore, key, welcomedKey string, queueClient *queue.Client) *SubscriptionService {
	key = strings.TrimSpace(key)
	if key == "" {
		key = constants.SubscribersStorageKey
	}
	welcomedKey = strings.TrimSpace(welcomedKey)
	if welcomedKey == "" {
		welcomedKey = constants.SubscribersWelcomedKey
	}
	return &SubscriptionService{
		store:       store,
		key:         key,
		welcomedKey: welcomedKey,
		queueClient: queueClient,
	}
}

// NormalizeSubscriberEmail 去空格、校验并转小写
func NormalizeSubscriberEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if !subscriberEmailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

// Subscribe 订阅；重复订阅视为成功
func (s *SubscriptionService) Subscribe(ctx context.Context, rawEmail string) (*SubscribeResult, error) {
	email, err := NormalizeSubscriberEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	subscribers := s.loadList(ctx, s.key)
	if containsString(subscribers, email) {
		s.mu.Unlock()
		return &SubscribeResult{Email: email, Created: false}, nil
	}
	subscribers = append(subscribers, email)
	err = s.saveList(ctx, s.key, subscribers)
	s.mu.Unlock()
	if err != nil {
		logger.Errorw("subscription_save_failed", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionSaveFailed, err)
	}

	if err := s.queueClient.EnqueueSubscriberWelcome(ctx, queue.SubscriberWelcomePayload{Email: email}); err != nil && !errors.Is(err, queue.ErrDuplicateTask) {
		logger.Warnw("subscription_enqueue_welcome_failed", "email", email, "error", err)
	}
	logger.Infow("subscription_created", "email", email)
	return &SubscribeResult{Email: email, Created: true}, nil
}

// List 当前订阅列表
func (s *SubscriptionService) List(ctx context.Context) []string {
	return s.loadList(ctx, s.key)
}

// MarkWelcomed 记录欢迎邮件已处理；返回 false 表示此前已记录
func (s *SubscriptionService) MarkWelcomed(ctx context.Context, rawEmail string) (bool, error) {
	email, err := NormalizeSubscriberEmail(rawEmail)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	welcomed := s.loadList(ctx, s.welcomedKey)
	if containsString(welcomed, email) {
		return false, nil
	}
	if err := s.saveList(ctx, s.welcomedKey, append(welcomed, email)); err != nil {
		return false, err
	}
	return true, nil
}

// PendingWelcome 已订阅但尚未处理欢迎任务的邮箱
func (s *SubscriptionService) PendingWelcome(ctx context.Context) []string {
	welcomed := s.loadList(ctx, s.welcomedKey)
	pending := make([]string, 0)
	for _, email := range s.loadList(ctx, s.key) {
		if !containsString(welcomed, email) {
			pending = append(pending, email)
		}
	}
	return pending
}

// IsWelcomed 是否已处理欢迎邮件
func (s *SubscriptionService) IsWelcomed(ctx context.Context, email string) bool {
	return containsString(s.loadList(ctx, s.welcomedKey), strings.ToLower(strings.TrimSpace(email)))
}

func (s *SubscriptionService) loadList(ctx context.Context, key string) []string {
	if s.store == nil {
		return []string{}
	}
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		logger.Errorw("subscription_list_load_failed", "key", key, "error", err)
		return []string{}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warnw("subscription_list_malformed", "key", key, "error", err)
		return []string{}
	}
	if list == nil {
		list = []string{}
	}
	return list
}

func (s *SubscriptionService) saveList(ctx context.Context, key string, list []string) error {
	if s.store == nil {
		return repository.ErrStoreUnavailable
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, string(payload))
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
