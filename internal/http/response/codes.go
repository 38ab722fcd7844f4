package response

// 业务状态码，随 HTTP 200 一并返回在 status_code 字段中
const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeNotFound           = 404
	CodeTooManyRequests    = 429
	CodeInternal           = 500
	CodeServiceUnavailable = 503
)

// IsServerError 判断业务码是否属于服务端故障
func IsServerError(code int) bool {
	return code >= CodeInternal
}
