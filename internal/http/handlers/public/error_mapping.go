package public

import (
	"errors"

	handlershared "github.com/abc-fitness/storefront/internal/http/handlers/shared"
	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// mapHandlerError 按规则表把业务错误转换为 AppError，未命中时使用兜底码
func mapHandlerError(err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) *response.AppError {
	if appErr, ok := response.AsAppError(err); ok {
		return appErr
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			return response.WrapError(rule.code, handlershared.Message(rule.key), nil)
		}
	}
	return response.WrapError(fallbackCode, handlershared.Message(fallbackKey), err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondAppError(c, mapHandlerError(err, rules, fallbackCode, fallbackKey))
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCartItem, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrInvalidQuantityDelta, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},
}

var subscriptionErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrSubscriptionSaveFailed, code: response.CodeInternal, key: "error.subscription_failed"},
}
