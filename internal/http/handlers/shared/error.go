package shared

import (
	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 按文案 key 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.WrapError(code, Message(key), err))
}

// RespondAppError 输出 AppError；服务端错误记 error，其余带原因的记 warn。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr != nil && appErr.Err != nil {
		log := RequestLog(c)
		if response.IsServerError(appErr.Code) {
			log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		} else {
			log.Warnw("handler_rejected", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		}
	}
	response.FromAppError(c, appErr)
}
