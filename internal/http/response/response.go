package response

import (
	"net/http"

	"github.com/abc-fitness/storefront/internal/constants"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码
	Msg        string      `json:"msg"`         // 提示消息
	Data       interface{} `json:"data"`        // 数据内容
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, "success", data)
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeOK,
		Msg:        msg,
		Data:       data,
	})
}

// Error 错误响应，data 中附带 request_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data gin.H) {
	c.JSON(http.StatusOK, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       attachRequestID(c, data),
	})
}

// FromAppError 按 AppError 的业务码与文案输出
func FromAppError(c *gin.Context, appErr *AppError) {
	if appErr == nil {
		Error(c, CodeInternal, http.StatusText(http.StatusInternalServerError))
		return
	}
	Error(c, appErr.Code, appErr.Message)
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

func attachRequestID(c *gin.Context, data gin.H) interface{} {
	requestID := ""
	if c != nil {
		requestID = c.GetString(constants.ContextKeyRequestID)
	}
	if requestID == "" {
		if data == nil {
			return nil
		}
		return data
	}
	if data == nil {
		return gin.H{constants.ContextKeyRequestID: requestID}
	}
	if _, ok := data[constants.ContextKeyRequestID]; !ok {
		data[constants.ContextKeyRequestID] = requestID
	}
	return data
}
