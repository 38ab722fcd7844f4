package queue

import (
	"context"
	"testing"

	"github.com/abc-fitness/storefront/internal/config"

	"github.com/hibiken/asynq"
)

func TestSubscriberWelcomeTaskRoundTrip(t *testing.T) {
	task, err := NewSubscriberWelcomeTask(SubscriberWelcomePayload{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.Type() != TaskSubscriberWelcome {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseSubscriberWelcomePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Email != "a@example.com" {
		t.Fatalf("unexpected payload email: %s", payload.Email)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := NewClient(&config.QueueConfig{Enabled: false})
	if client.Enabled() {
		t.Fatalf("disabled client should not be enabled")
	}
	if err := client.EnqueueSubscriberWelcome(context.Background(), SubscriberWelcomePayload{Email: "a@example.com"}); err != nil {
		t.Fatalf("disabled client enqueue should be noop, got %v", err)
	}

	var nilClient *Client
	if err := nilClient.EnqueueSubscriberWelcome(context.Background(), SubscriberWelcomePayload{Email: "a@example.com"}); err != nil {
		t.Fatalf("nil client enqueue should be noop, got %v", err)
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client close should be noop, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected redis addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 5 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected queues: %+v", cfg.Queues)
	}
	if cfg.ErrorHandler == nil {
		t.Fatalf("error handler should be set")
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 3, Queues: map[string]int{"critical": 2}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues["critical"] != 2 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestSubscriberWelcomeTaskIDNormalizesEmail(t *testing.T) {
	got := SubscriberWelcomeTaskID("  Jane@Example.COM ")
	if got != "subscriber:welcome:jane@example.com" {
		t.Fatalf("unexpected task id: %s", got)
	}
}

func TestWelcomeOptionsCarryTaskID(t *testing.T) {
	client := &Client{defaultQueue: DefaultQueue}
	var gotID, gotQueue string
	for _, opt := range client.welcomeOptions("Jane@Example.com") {
		switch opt.Type() {
		case asynq.TaskIDOpt:
			gotID = opt.Value().(string)
		case asynq.QueueOpt:
			gotQueue = opt.Value().(string)
		}
	}
	if gotID != "subscriber:welcome:jane@example.com" {
		t.Fatalf("unexpected task id option: %q", gotID)
	}
	if gotQueue != DefaultQueue {
		t.Fatalf("unexpected queue option: %q", gotQueue)
	}
}
