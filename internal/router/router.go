package router

import (
	"fmt"
	"strings"

	"github.com/abc-fitness/storefront/internal/config"
	publichandlers "github.com/abc-fitness/storefront/internal/http/handlers/public"
	handlershared "github.com/abc-fitness/storefront/internal/http/handlers/shared"
	"github.com/abc-fitness/storefront/internal/http/response"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "abc"
	}
	subscribeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:subscribe", redisPrefix),
		WindowSeconds: cfg.Subscription.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Subscription.RateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS, cfg.Cart.SessionHeader))

	r.GET(healthzPath, publicHandler.Healthz)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/config", publicHandler.GetConfig)
		apiV1.POST("/subscriptions", RateLimitMiddleware(c.RedisClient, subscribeRule, KeyByIPAndJSONField("email")), publicHandler.Subscribe)

		// 购物车（按会话隔离）
		cart := apiV1.Group("/cart")
		cart.Use(SessionMiddleware(cfg.Cart))
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/summary", publicHandler.GetCartSummary)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PATCH("/items/:id", publicHandler.ChangeCartItemQuantity)
			cart.POST("/items/:id/increase", publicHandler.IncreaseCartItem)
			cart.POST("/items/:id/decrease", publicHandler.DecreaseCartItem)
			cart.DELETE("/items/:id", publicHandler.RemoveCartItem)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, handlershared.Message("error.not_found"))
	})

	return r
}
