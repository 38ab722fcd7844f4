package shared

// messages 错误提示文案
var messages = map[string]string{
	"error.bad_request":           "invalid request",
	"error.not_found":             "resource not found",
	"error.internal":              "internal server error",
	"error.session_missing":       "session is missing",
	"error.cart_item_invalid":     "cart item requires id, name, type and a non-negative price",
	"error.cart_quantity_invalid": "quantity change must be a non-zero integer",
	"error.email_invalid":         "Please enter a valid email address.",
	"error.subscription_failed":   "Something went wrong. Please try again.",
	"error.storage_unavailable":   "storage unavailable",
	"error.rate_limited":          "too many requests, please retry in %d seconds",
}

// Message 按 key 获取提示文案，未登记时原样返回 key
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
