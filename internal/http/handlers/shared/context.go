package shared

import (
	"strings"

	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSessionID 从上下文读取会话 ID 并统一处理错误响应。
func GetSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeySessionID)
	if !exists {
		RespondError(c, response.CodeBadRequest, "error.session_missing", nil)
		return "", false
	}
	sessionID, ok := value.(string)
	if !ok || strings.TrimSpace(sessionID) == "" {
		RespondError(c, response.CodeBadRequest, "error.session_missing", nil)
		return "", false
	}
	return sessionID, true
}
