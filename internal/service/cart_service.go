package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/models"
	"github.com/abc-fitness/storefront/internal/repository"
)

// CartCandidate 待加入购物车的商品
type CartCandidate struct {
	ID    string
	Name  string
	Price models.Money
	Type  string
}

// CartListener 购物车变更回调，渲染层通过它重绘
type CartListener func(ctx context.Context, cart models.Cart)

// CartMutation 一次变更操作的结果
type CartMutation struct {
	Cart      models.Cart // 变更后的购物车
	Applied   bool        // 是否命中并修改了购物车
	Removed   bool        // 是否有购物车项被移除
	Persisted bool        // 是否成功写入存储（失败仅记录日志）
}

// ValidateCartCandidate 校验候选商品
func ValidateCartCandidate(candidate CartCandidate) error {
	if strings.TrimSpace(candidate.ID) == "" ||
		strings.TrimSpace(candidate.Name) == "" ||
		strings.TrimSpace(candidate.Type) == "" {
		return ErrInvalidCartItem
	}
	if candidate.Price.IsNegative() {
		return ErrInvalidCartItem
	}
	return nil
}

// CartService 购物车服务：按会话创建 CartStore，并在同一进程内串行化同一购物车的变更
type CartService struct {
	store     repository.KVStore
	baseKey   string
	notifier  Notifier
	listeners []CartListener
	locks     *keyedMutex
}

// CartServiceOption 购物车服务选项
type CartServiceOption func(*CartService)

// WithServiceNotifier 为所有购物车追加提示接收方
func WithServiceNotifier(n Notifier) CartServiceOption {
	return func(s *CartService) {
		s.notifier = n
	}
}

// WithServiceListener 为所有购物车追加变更监听
func WithServiceListener(l CartListener) CartServiceOption {
	return func(s *CartService) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// NewCartService 创建购物车服务
func NewCartService(store repository.KVStore, baseKey string, opts ...CartServiceOption) *CartService {
	baseKey = strings.TrimSpace(baseKey)
	if baseKey == "" {
		baseKey = constants.CartStorageKey
	}
	s := &CartService{
		store:   store,
		baseKey: baseKey,
		locks:   newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyFor 会话对应的存储键
func (s *CartService) KeyFor(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return s.baseKey
	}
	return fmt.Sprintf("%s:%s", s.baseKey, sessionID)
}

// Open 打开会话购物车，opts 仅作用于本次返回的 CartStore
func (s *CartService) Open(sessionID string, opts ...CartStoreOption) *CartStore {
	base := []CartStoreOption{withLocks(s.locks)}
	if s.notifier != nil {
		base = append(base, WithNotifier(s.notifier))
	}
	for _, l := range s.listeners {
		base = append(base, WithListener(l))
	}
	return NewCartStore(s.store, s.KeyFor(sessionID), append(base, opts...)...)
}

// CartStore 购物车权威状态：每次操作都从存储读取最新快照，变更后整体写回
type CartStore struct {
	store     repository.KVStore
	key       string
	notifiers MultiNotifier
	listeners []CartListener
	locks     *keyedMutex
}

// CartStoreOption 购物车选项
type CartStoreOption func(*CartStore)

// WithNotifier 追加提示接收方
func WithNotifier(n Notifier) CartStoreOption {
	return func(c *CartStore) {
		if n != nil {
			c.notifiers = append(c.notifiers, n)
		}
	}
}

// WithListener 追加变更监听
func WithListener(l CartListener) CartStoreOption {
	return func(c *CartStore) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

func withLocks(locks *keyedMutex) CartStoreOption {
	return func(c *CartStore) {
		if locks != nil {
			c.locks = locks
		}
	}
}

// NewCartStore 创建固定存储键的购物车
func NewCartStore(store repository.KVStore, key string, opts ...CartStoreOption) *CartStore {
	key = strings.TrimSpace(key)
	if key == "" {
		key = constants.CartStorageKey
	}
	c := &CartStore{
		store: store,
		key:   key,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.locks == nil {
		c.locks = newKeyedMutex()
	}
	return c
}

// Key 存储键
func (c *CartStore) Key() string {
	return c.key
}

// Load 读取当前购物车；数据缺失或损坏时返回空购物车
func (c *CartStore) Load(ctx context.Context) models.Cart {
	return c.read(ctx).cart
}

// Total 按当前持久化状态计算总价
func (c *CartStore) Total(ctx context.Context) models.Money {
	return c.Load(ctx).TotalPrice()
}

// Count 按当前持久化状态计算商品总件数
func (c *CartStore) Count(ctx context.Context) int {
	return c.Load(ctx).TotalCount()
}

// View 生成渲染视图
func (c *CartStore) View(ctx context.Context) CartView {
	return BuildCartView(c.Load(ctx))
}

// Add 加入购物车：同 id 数量 +1 且保留已存储的名称/价格/类型，否则新增数量为 1 的项
func (c *CartStore) Add(ctx context.Context, candidate CartCandidate) CartMutation {
	if err := ValidateCartCandidate(candidate); err != nil {
		logger.Warnw("cart_add_rejected", "key", c.key, "item_id", candidate.ID, "error", err)
		return CartMutation{Cart: c.Load(ctx)}
	}

	unlock := c.locks.Lock(c.key)
	cart := c.read(ctx).cart
	if idx := cart.IndexOf(candidate.ID); idx > -1 {
		// TODO: 同 id 再次加入时沿用旧价格，价格调整后购物车可能展示过期单价，需确认是否应刷新
		cart.Items[idx].Quantity = models.AddQuantity(cart.Items[idx].Quantity, 1)
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ID:       candidate.ID,
			Name:     candidate.Name,
			Price:    models.NewMoneyFromDecimal(candidate.Price.Decimal),
			Type:     candidate.Type,
			Quantity: 1,
		})
	}
	persisted := c.write(ctx, cart)
	unlock()

	c.emitChange(ctx, cart)
	c.notify(ctx, SuccessNotice(fmt.Sprintf("%s added to cart!", candidate.Name)))
	c.notify(ctx, AnnounceNotice(fmt.Sprintf("%s added to cart", candidate.Name)))
	return CartMutation{Cart: cart, Applied: true, Persisted: persisted}
}

// ChangeQuantity 调整数量；结果 <= 0 时移除该项。id 不存在时不做任何事
func (c *CartStore) ChangeQuantity(ctx context.Context, id string, delta int) CartMutation {
	unlock := c.locks.Lock(c.key)
	cart := c.read(ctx).cart
	idx := cart.IndexOf(id)
	if idx < 0 {
		unlock()
		return CartMutation{Cart: cart}
	}

	item := cart.Items[idx]
	item.Quantity = models.AddQuantity(item.Quantity, delta)
	removed := item.Quantity <= 0
	if removed {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx] = item
	}
	persisted := c.write(ctx, cart)
	unlock()

	c.emitChange(ctx, cart)
	if removed {
		c.notify(ctx, AnnounceNotice(fmt.Sprintf("%s removed from cart", item.Name)))
	} else {
		c.notify(ctx, AnnounceNotice(fmt.Sprintf("%s quantity updated to %d", item.Name, item.Quantity)))
	}
	return CartMutation{Cart: cart, Applied: true, Removed: removed, Persisted: persisted}
}

// Remove 移除购物车项，id 不存在时不做任何事
func (c *CartStore) Remove(ctx context.Context, id string) CartMutation {
	unlock := c.locks.Lock(c.key)
	cart := c.read(ctx).cart
	idx := cart.IndexOf(id)
	if idx < 0 {
		unlock()
		return CartMutation{Cart: cart}
	}

	name := cart.Items[idx].Name
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	persisted := c.write(ctx, cart)
	unlock()

	c.emitChange(ctx, cart)
	c.notify(ctx, AnnounceNotice(fmt.Sprintf("%s removed from cart", name)))
	return CartMutation{Cart: cart, Applied: true, Removed: true, Persisted: persisted}
}

// cartReadResult 读取结果：persisted / empty / recovered
type cartReadResult struct {
	cart   models.Cart
	source string
	err    error
}

func (c *CartStore) read(ctx context.Context) cartReadResult {
	if c.store == nil {
		logger.Errorw("cart_load_recovered", "key", c.key, "error", repository.ErrStoreUnavailable)
		return cartReadResult{cart: models.NewCart(), source: constants.CartSourceRecovered, err: repository.ErrStoreUnavailable}
	}
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		logger.Errorw("cart_load_recovered", "key", c.key, "reason", "read_failed", "error", err)
		return cartReadResult{cart: models.NewCart(), source: constants.CartSourceRecovered, err: err}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return cartReadResult{cart: models.NewCart(), source: constants.CartSourceEmpty}
	}
	cart, dropped, err := decodeCart(raw)
	if err != nil {
		logger.Warnw("cart_load_recovered", "key", c.key, "reason", "malformed", "error", err)
		return cartReadResult{cart: models.NewCart(), source: constants.CartSourceRecovered, err: err}
	}
	if dropped > 0 {
		logger.Warnw("cart_load_sanitized", "key", c.key, "dropped", dropped, "kept", len(cart.Items))
		return cartReadResult{cart: cart, source: constants.CartSourceRecovered}
	}
	return cartReadResult{cart: cart, source: constants.CartSourcePersisted}
}

func (c *CartStore) write(ctx context.Context, cart models.Cart) bool {
	if c.store == nil {
		logger.Errorw("cart_persist_failed", "key", c.key, "error", repository.ErrStoreUnavailable)
		return false
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		logger.Errorw("cart_persist_failed", "key", c.key, "stage", "encode", "error", err)
		return false
	}
	if err := c.store.Set(ctx, c.key, string(payload)); err != nil {
		logger.Errorw("cart_persist_failed", "key", c.key, "stage", "write", "error", err)
		return false
	}
	return true
}

func (c *CartStore) emitChange(ctx context.Context, cart models.Cart) {
	for _, l := range c.listeners {
		l(ctx, cart.Clone())
	}
}

func (c *CartStore) notify(ctx context.Context, notice Notice) {
	c.notifiers.Notify(ctx, notice)
}

// decodeCart 解析持久化数据，逐项解码并清理违反不变量的项：无法解析、空 id、数量 <= 0、负价格的项被丢弃，
// 重复 id 合并数量。返回被丢弃的项数；仅外层结构损坏时返回错误
func decodeCart(raw string) (models.Cart, int, error) {
	var envelope struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return models.Cart{}, 0, err
	}
	cart := models.NewCart()
	dropped := 0
	for _, rawItem := range envelope.Items {
		var item models.CartItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			dropped++
			continue
		}
		if strings.TrimSpace(item.ID) == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			dropped++
			continue
		}
		if idx := cart.IndexOf(item.ID); idx > -1 {
			cart.Items[idx].Quantity = models.AddQuantity(cart.Items[idx].Quantity, item.Quantity)
			continue
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, dropped, nil
}

// keyedMutex 按存储键加锁，引用计数归零后释放
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock 获取 key 对应的锁，返回解锁函数
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
