package app

import (
	"errors"

	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/logger"
	"github.com/abc-fitness/storefront/internal/provider"
	"github.com/abc-fitness/storefront/internal/router"
	"github.com/abc-fitness/storefront/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	services, err := buildServices(cfg, mode, container)
	if err != nil {
		container.Close()
		return nil, nil, err
	}
	return NewRunner(services...), container, nil
}

func buildServices(cfg *config.Config, rawMode string, container *provider.Container) ([]Service, error) {
	mode, err := ParseMode(rawMode)
	if err != nil {
		return nil, err
	}
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	// 初始化 Worker 服务；all 模式下队列未启用时跳过
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("app_worker_skipped", "reason", "queue_disabled")
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"storage", opts.Config.Storage.Driver,
		"services", runner.Names(),
	)
	return RunWithOptions(runner, opts)
}
