package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/unsave-mcp/metrics"
	"github.com/xpzouying/unsave-mcp/reddit"
	"github.com/xpzouying/unsave-mcp/unsave"
)

type fakeService struct {
	loggedIn  bool
	loginErr  error
	report    *unsave.Report
	runErr    error
	lastReq   *UnsaveRequest
	runCalled int
}

func (f *fakeService) CheckLoginStatus(context.Context) (*LoginStatusResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &LoginStatusResponse{IsLoggedIn: f.loggedIn}, nil
}

func (f *fakeService) RunUnsave(_ context.Context, req *UnsaveRequest) (*unsave.Report, error) {
	f.runCalled++
	f.lastReq = req
	return f.report, f.runErr
}

func newTestServer(svc Unsaver) *AppServer {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg)
	return NewAppServer(svc, reg)
}

func serve(s *AppServer, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func completedReport() *unsave.Report {
	return &unsave.Report{
		RunID:     "run-1",
		Completed: true,
		Reason:    unsave.ReasonFeedExhausted,
		Stats:     unsave.RunStats{TotalProcessed: 7, TotalBatches: 2, TotalSkipped: 1},
		Duration:  3 * time.Second,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeService{})

	rec := serve(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestLoginStatusHandler(t *testing.T) {
	s := newTestServer(&fakeService{loggedIn: true})
	rec := serve(s, http.MethodGet, "/api/v1/login/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_logged_in":true`)

	s = newTestServer(&fakeService{loginErr: errors.New("browser gone")})
	rec = serve(s, http.MethodGet, "/api/v1/login/status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "STATUS_CHECK_FAILED")
}

func TestRunUnsaveHandler(t *testing.T) {
	t.Run("完成", func(t *testing.T) {
		svc := &fakeService{report: completedReport()}
		s := newTestServer(svc)

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_processed":7`)
		assert.Equal(t, "", svc.lastReq.FeedURL)
	})

	t.Run("自定义收藏页地址", func(t *testing.T) {
		svc := &fakeService{report: completedReport()}
		s := newTestServer(svc)

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", `{"feed_url":"https://www.reddit.com/user/bob/saved/"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://www.reddit.com/user/bob/saved/", svc.lastReq.FeedURL)
	})

	t.Run("请求体错误", func(t *testing.T) {
		svc := &fakeService{}
		s := newTestServer(svc)

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", `{"feed_url":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, svc.runCalled)
	})

	t.Run("拒绝非 reddit 地址", func(t *testing.T) {
		svc := &fakeService{report: completedReport()}
		s := newTestServer(svc)

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", `{"feed_url":"https://evil.example.com/saved/"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_FEED_URL")
		assert.Equal(t, 0, svc.runCalled)
	})

	t.Run("未登录", func(t *testing.T) {
		s := newTestServer(&fakeService{runErr: reddit.ErrNotLoggedIn})

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("中途停止返回已有统计", func(t *testing.T) {
		report := completedReport()
		report.Completed = false
		report.Reason = unsave.ReasonAborted
		s := newTestServer(&fakeService{report: report, runErr: errors.New("page crashed")})

		rec := serve(s, http.MethodPost, "/api/v1/unsave/run", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNSAVE_ABORTED")
		assert.Contains(t, rec.Body.String(), `"total_processed":7`)
	})
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(&fakeService{})

	rec := serve(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsave_batches_total")
}

func TestMCPServer_InMemoryTransport(t *testing.T) {
	svc := &fakeService{loggedIn: true, report: completedReport()}
	s := newTestServer(svc)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.mcpServer.Run(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() {
		_ = session.Close()
	}()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{toolCheckLoginStatus, toolUnsaveSaved}, names)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolUnsaveSaved,
		Arguments: map[string]any{"feed_url": "https://www.reddit.com/user/bob/saved/"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "已取消收藏: 7 个")
	assert.Equal(t, "https://www.reddit.com/user/bob/saved/", svc.lastReq.FeedURL)

	result, err = session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolUnsaveSaved,
		Arguments: map[string]any{"feed_url": "http://evil.example.com/saved/"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 1, svc.runCalled, "非 reddit 地址不应启动任务")

	cancel()
	<-serverDone
}

func TestFormatReport_Aborted(t *testing.T) {
	report := &unsave.Report{
		RunID:  "run-2",
		Reason: unsave.ReasonAborted,
		Error:  "page crashed",
		Stats:  unsave.RunStats{TotalProcessed: 3, TotalFailed: 1},
	}

	text := formatReport(report)
	assert.Contains(t, text, "中途停止")
	assert.Contains(t, text, unsave.ReasonAborted)
	assert.Contains(t, text, "错误: page crashed")
	assert.Contains(t, text, "处理失败: 1 个")
}
