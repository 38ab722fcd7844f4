package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/abc-fitness/storefront/internal/app"
	"github.com/abc-fitness/storefront/internal/config"
	"github.com/abc-fitness/storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if _, err := app.ParseMode(mode); err != nil {
		stdLog.Fatalf("启动参数错误: %v", err)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║          ABC Fitness Storefront API 启动中           ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + " █████╗ ██████╗  ██████╗" + ansiReset)
	fmt.Println(ansiCyan + "██╔══██╗██╔══██╗██╔════╝" + ansiReset)
	fmt.Println(ansiCyan + "███████║██████╔╝██║     " + ansiReset)
	fmt.Println(ansiCyan + "██╔══██║██╔══██╗██║     " + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██████╔╝╚██████╗" + ansiReset)
	fmt.Println(ansiCyan + "╚═╝  ╚═╝╚═════╝  ╚═════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Cart · Subscriptions · Worker" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
