package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xpzouying/unsave-mcp/metrics"
)

// setupRoutes 设置路由
func (s *AppServer) setupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(corsMiddleware())

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler(s.registry)))

	// MCP 端点，Streamable HTTP 传输
	mcpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
	router.Any("/mcp", gin.WrapH(mcpHandler))

	api := router.Group("/api/v1")
	{
		api.GET("/login/status", s.checkLoginStatusHandler)
		api.POST("/unsave/run", s.runUnsaveHandler)
	}

	return router
}
