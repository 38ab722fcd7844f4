package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey       = constants.ContextKeyRequestID
	requestIDHeader    = "X-Request-ID"
	maxSessionIDLength = 128
	healthzPath        = "/healthz"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig, extraHeaders ...string) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Cache-Control",
			"X-Requested-With",
			requestIDHeader,
		}
	}
	for _, header := range extraHeaders {
		if header = strings.TrimSpace(header); header != "" && !containsFold(allowedHeaders, header) {
			allowedHeaders = append(allowedHeaders, header)
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

func containsFold(list []string, target string) bool {
	for _, item := range list {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

// RequestIDMiddleware 请求 ID 中间件，上游传入的非法 ID 会被替换
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := normalizeToken(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// SessionMiddleware 匿名会话中间件：优先读取请求头，其次 Cookie，均缺失时生成新会话并下发 Cookie
func SessionMiddleware(cfg config.CartConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.SessionCookie)
	if cookieName == "" {
		cookieName = constants.DefaultSessionCookieName
	}
	headerName := strings.TrimSpace(cfg.SessionHeader)
	if headerName == "" {
		headerName = constants.DefaultSessionHeader
	}
	maxAge := cfg.SessionMaxAgeDays * 24 * 60 * 60
	if maxAge <= 0 {
		maxAge = 30 * 24 * 60 * 60
	}

	return func(c *gin.Context) {
		sessionID := normalizeToken(c.GetHeader(headerName))
		if sessionID == "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				sessionID = normalizeToken(cookie)
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, maxAge, "/", "", c.Request.TLS != nil, true)
		c.Writer.Header().Set(headerName, sessionID)
		c.Set(constants.ContextKeySessionID, sessionID)
		c.Next()
	}
}

// normalizeToken 仅接受可安全拼入存储键与日志的标识（字母、数字、- 和 _）
func normalizeToken(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || len(value) > maxSessionIDLength {
		return ""
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return value
}

// LoggerMiddleware 结构化请求日志中间件，健康检查降为 debug
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"session_id", c.GetString(constants.ContextKeySessionID),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		switch {
		case len(c.Errors) > 0:
			log.Errorw("request", "errors", c.Errors.String())
		case c.Request.URL.Path == healthzPath:
			log.Debugw("request")
		default:
			log.Infow("request")
		}
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
