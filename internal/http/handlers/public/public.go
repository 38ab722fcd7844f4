package public

import (
	"context"
	"time"

	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// GetConfig 获取前台公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	data := map[string]interface{}{
		"cart": map[string]interface{}{
			"session_cookie": h.Config.Cart.SessionCookie,
			"session_header": h.Config.Cart.SessionHeader,
		},
		"subscription": map[string]interface{}{
			"welcome_email_enabled": h.QueueClient.Enabled(),
		},
	}
	response.Success(c, data)
}

// Healthz 存活检查，存储后端不可用时返回错误码
func (h *Handler) Healthz(c *gin.Context) {
	status := map[string]interface{}{
		"storage": h.Config.Storage.Driver,
		"queue":   h.QueueClient.Enabled(),
	}
	if pinger, ok := h.KVStore.(repository.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			respondError(c, response.CodeServiceUnavailable, "error.storage_unavailable", err)
			return
		}
	}
	response.Success(c, status)
}
