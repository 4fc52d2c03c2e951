package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/unsave-mcp/browser"
)

const shutdownTimeout = 5 * time.Second

// AppServer 应用服务器，同时提供 HTTP API 和 MCP 服务
type AppServer struct {
	service    Unsaver
	registry   *prometheus.Registry
	mcpServer  *mcpsdk.Server
	router     *gin.Engine
	httpServer *http.Server
}

func NewAppServer(service Unsaver, registry *prometheus.Registry) *AppServer {
	s := &AppServer{
		service:  service,
		registry: registry,
	}
	s.mcpServer = s.initMCPServer()
	s.router = s.setupRoutes()
	return s
}

// Start 启动 HTTP 服务器，收到退出信号后优雅关闭
func (s *AppServer) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("启动 HTTP 服务器: %s", port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-quit:
	}

	logrus.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("服务器关闭超时: %v", err)
	}
	browser.GetGlobalManager().CloseBrowser()

	logrus.Info("服务器已关闭")
	return nil
}

// StartSTDIO 以 STDIO 传输运行 MCP 服务器，不启动 HTTP 服务
func (s *AppServer) StartSTDIO() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer browser.GetGlobalManager().CloseBrowser()

	if err := s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "mcp stdio server")
	}
	return nil
}
