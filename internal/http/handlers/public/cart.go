package public

import (
	"context"
	"strings"

	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/models"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求，price 支持数字或字符串
type AddCartItemRequest struct {
	ID    string        `json:"id" binding:"required"`
	Name  string        `json:"name" binding:"required"`
	Price *models.Money `json:"price" binding:"required"`
	Type  string        `json:"type" binding:"required"`
}

// ChangeCartItemQuantityRequest 调整数量请求
type ChangeCartItemQuantityRequest struct {
	Delta int `json:"delta"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Cart      service.CartView `json:"cart"`
	Notices   []service.Notice `json:"notices"`
	Applied   bool             `json:"applied"`
	Persisted bool             `json:"persisted"`
}

// CartSummaryResponse 购物车角标
type CartSummaryResponse struct {
	Count int          `json:"count"`
	Total models.Money `json:"total"`
}

// cartSession 单次请求的购物车，收集提示并捕获变更后的视图
type cartSession struct {
	store    *service.CartStore
	recorder *service.NoticeRecorder
	view     *service.CartView
}

func (h *Handler) openCart(sessionID string) *cartSession {
	session := &cartSession{recorder: service.NewNoticeRecorder()}
	session.store = h.CartService.Open(sessionID,
		service.WithNotifier(session.recorder),
		service.WithListener(func(_ context.Context, cart models.Cart) {
			view := service.BuildCartView(cart)
			session.view = &view
		}),
	)
	return session
}

func (s *cartSession) respond(c *gin.Context, mutation service.CartMutation) {
	view := service.BuildCartView(mutation.Cart)
	if s.view != nil {
		view = *s.view
	}
	response.Success(c, CartResponse{
		Cart:      view,
		Notices:   s.recorder.Notices(),
		Applied:   mutation.Applied,
		Persisted: mutation.Persisted,
	})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session := h.openCart(sessionID)
	response.Success(c, CartResponse{
		Cart:      session.store.View(c.Request.Context()),
		Notices:   session.recorder.Notices(),
		Persisted: true,
	})
}

// GetCartSummary 获取购物车件数与总价
func (h *Handler) GetCartSummary(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	cart := h.openCart(sessionID).store.Load(c.Request.Context())
	response.Success(c, CartSummaryResponse{
		Count: cart.TotalCount(),
		Total: cart.TotalPrice(),
	})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}
	candidate := service.CartCandidate{
		ID:    strings.TrimSpace(req.ID),
		Name:  strings.TrimSpace(req.Name),
		Price: *req.Price,
		Type:  strings.TrimSpace(req.Type),
	}
	if err := service.ValidateCartCandidate(candidate); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeBadRequest, "error.bad_request")
		return
	}

	session := h.openCart(sessionID)
	session.respond(c, session.store.Add(c.Request.Context(), candidate))
}

// ChangeCartItemQuantity 按 delta 调整数量
func (h *Handler) ChangeCartItemQuantity(c *gin.Context) {
	var req ChangeCartItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.cart_quantity_invalid", nil)
		return
	}
	if req.Delta == 0 {
		respondWithMappedError(c, service.ErrInvalidQuantityDelta, cartErrorRules, response.CodeBadRequest, "error.bad_request")
		return
	}
	h.changeQuantity(c, req.Delta)
}

// IncreaseCartItem 数量 +1
func (h *Handler) IncreaseCartItem(c *gin.Context) {
	h.changeQuantity(c, 1)
}

// DecreaseCartItem 数量 -1，降到 0 时移除
func (h *Handler) DecreaseCartItem(c *gin.Context) {
	h.changeQuantity(c, -1)
}

func (h *Handler) changeQuantity(c *gin.Context, delta int) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session := h.openCart(sessionID)
	session.respond(c, session.store.ChangeQuantity(c.Request.Context(), c.Param("id"), delta))
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	session := h.openCart(sessionID)
	session.respond(c, session.store.Remove(c.Request.Context(), c.Param("id")))
}
