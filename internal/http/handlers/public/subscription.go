package public

import (
	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	subscribeCreatedMsg   = "Thank you for subscribing! Check your inbox for updates."
	subscribeDuplicateMsg = "You're already subscribed! Thank you for your interest."
	subscribeToastMsg     = "Successfully subscribed!"
)

// SubscribeRequest 邮件订阅请求
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse 邮件订阅响应
type SubscribeResponse struct {
	Email   string           `json:"email"`
	Created bool             `json:"created"`
	Notices []service.Notice `json:"notices"`
}

// Subscribe 订阅邮件
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		return
	}
	result, err := h.SubscriptionService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		respondWithMappedError(c, err, subscriptionErrorRules, response.CodeInternal, "error.subscription_failed")
		return
	}
	if !result.Created {
		response.SuccessWithMsg(c, subscribeDuplicateMsg, SubscribeResponse{
			Email:   result.Email,
			Notices: []service.Notice{},
		})
		return
	}
	response.SuccessWithMsg(c, subscribeCreatedMsg, SubscribeResponse{
		Email:   result.Email,
		Created: true,
		Notices: []service.Notice{service.SuccessNotice(subscribeToastMsg)},
	})
}
