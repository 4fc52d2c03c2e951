package main

import (
	"flag"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/browser"
	"github.com/xpzouying/unsave-mcp/configs"
	"github.com/xpzouying/unsave-mcp/cookies"
	"github.com/xpzouying/unsave-mcp/metrics"
)

func main() {
	var (
		headless      bool
		binPath       string // 浏览器二进制文件路径
		port          string
		stdioMode     bool // 是否使用 STDIO 模式
		policyPath    string
		screenshotDir string
	)
	flag.BoolVar(&headless, "headless", true, "是否无头模式")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径")
	flag.StringVar(&port, "port", ":18060", "端口")
	flag.BoolVar(&stdioMode, "stdio", false, "使用 STDIO 模式（用于 MCP 客户端）")
	flag.StringVar(&policyPath, "policy", "", "策略文件路径（YAML，可选，不传则使用 UNSAVE_POLICY 环境变量）")
	flag.StringVar(&screenshotDir, "screenshot-dir", "", "异常停止时保存截图的目录（可选）")
	flag.Parse()

	configs.LoadEnv()
	configs.SetupLogging()

	binPath = configs.ResolveBinPath(binPath)
	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)
	browser.GetGlobalManager().SetConfig(configs.IsHeadless(), configs.GetBinPath(), cookies.GetCookiesFilePath())

	settings, err := configs.LoadSettings(configs.ResolvePolicyPath(policyPath))
	if err != nil {
		logrus.Fatalf("failed to load policy: %v", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	// 初始化服务
	unsaveService := NewUnsaveService(settings, recorder, screenshotDir)

	// 创建应用服务器
	appServer := NewAppServer(unsaveService, registry)

	// 根据模式选择启动方式
	if stdioMode {
		// STDIO 模式：直接运行 MCP 服务器，不启动 HTTP 服务
		logrus.Info("启动 STDIO 模式 MCP 服务器")
		if err := appServer.StartSTDIO(); err != nil {
			logrus.Fatalf("failed to run STDIO server: %v", err)
		}
	} else {
		if err := appServer.Start(port); err != nil {
			logrus.Fatalf("failed to run server: %v", err)
		}
	}
}
