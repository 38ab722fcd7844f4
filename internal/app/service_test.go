package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/provider"
	"github.com/abc-fitness/storefront/internal/repository"

	"go.uber.org/goleak"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	block    bool
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return s.stopErr
}

func TestRunnerStopsAllServicesOnError(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	boom := errors.New("boom")
	failing := &fakeService{name: "failing", startErr: boom}
	blocking := &fakeService{name: "blocking", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx, cancel := context.WithCancel(context.Background())
	svc := &fakeService{name: "blocking", block: true}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("expected nil error on cancel, got %v", err)
	}
}

func TestRunnerRequiresServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
	if err := NewRunner(nil, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil services should be dropped")
	}
}

func TestRunnerJoinsStopErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopFailed := errors.New("stop failed")
	svc := &fakeService{name: "blocking", block: true, stopErr: stopFailed}
	cancel()
	err := NewRunner(svc).Run(ctx, time.Second, nil)
	if !errors.Is(err, stopFailed) {
		t.Fatalf("expected stop error, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, " API ": ModeAPI, "worker": ModeWorker, "all": ModeAll}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestHTTPServiceServesAndStops(t *testing.T) {
	svc := NewHTTPService("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for strings.HasSuffix(svc.Addr(), ":0") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	resp, err := http.Get("http://" + svc.Addr() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("start should return nil after shutdown, got %v", err)
	}
}

func TestBuildServicesByMode(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	container := provider.NewContainerWithStore(cfg, repository.NewMemoryKVRepository())

	services, err := buildServices(cfg, ModeAll, container)
	if err != nil {
		t.Fatalf("build services failed: %v", err)
	}
	if len(services) != 1 || services[0].Name() != "http" {
		t.Fatalf("queue disabled should only start http, got %d services", len(services))
	}
	if _, err := buildServices(cfg, ModeWorker, container); err == nil {
		t.Fatalf("worker mode should fail without queue")
	}
	if _, err := buildServices(cfg, "unknown", container); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
