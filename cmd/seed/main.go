package main

import (
	"context"
	"flag"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/models"
	"github.com/abc-fitness/storefront/internal/provider"
	"github.com/abc-fitness/storefront/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	var sessionID string
	flag.StringVar(&sessionID, "session", "demo", "写入示例购物车的会话 ID")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	container, err := provider.NewContainer(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to init storage: %v", err)
	}
	defer container.Close()
	ctx := context.Background()

	// 示例商品
	items := []service.CartCandidate{
		{ID: "membership-gold", Name: "Gold Membership", Price: models.NewMoneyFromDecimal(decimal.RequireFromString("49.99")), Type: "membership"},
		{ID: "membership-basic", Name: "Basic Membership", Price: models.NewMoneyFromDecimal(decimal.RequireFromString("29.99")), Type: "membership"},
		{ID: "equipment-kettlebell", Name: "Kettlebell 16kg", Price: models.NewMoneyFromDecimal(decimal.RequireFromString("25.50")), Type: "equipment"},
		{ID: "equipment-mat", Name: "Yoga Mat", Price: models.NewMoneyFromDecimal(decimal.RequireFromString("19.00")), Type: "equipment"},
	}

	store := container.CartService.Open(sessionID)
	for _, item := range items {
		result := store.Add(ctx, item)
		if !result.Persisted {
			stdLog.Printf("Failed to persist cart item: %s", item.ID)
			continue
		}
		stdLog.Printf("Added cart item: %s", item.ID)
	}

	subscribers := []string{"member@example.com", "coach@example.com"}
	for _, email := range subscribers {
		result, err := container.SubscriptionService.Subscribe(ctx, email)
		if err != nil {
			stdLog.Printf("Failed to subscribe %s: %v", email, err)
			continue
		}
		if result.Created {
			stdLog.Printf("Created subscriber: %s", result.Email)
		} else {
			stdLog.Printf("Subscriber already exists: %s", result.Email)
		}
	}

	stdLog.Printf("Seed finished: session=%s key=%s count=%d total=%s subscribers=%d",
		sessionID, store.Key(), store.Count(ctx), store.Total(ctx).String(), len(container.SubscriptionService.List(ctx)))
}
