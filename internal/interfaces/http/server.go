package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/monitoring"
	"github.com/Avleen-2464/EchoQuill/internal/interfaces/http/handlers"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// Config HTTP服务器配置
type Config struct {
	Host string
	Port int
	Mode string // local, production
}

// NewServer 创建HTTP服务器
func NewServer(
	cfg Config,
	chatHandler *handlers.ChatHandler,
	journalHandler *handlers.JournalHandler,
	monitor *monitoring.Monitor,
	llm service.TextGenerator,
	logger *zap.Logger,
) *Server {
	// 设置Gin模式
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))
	if monitor != nil {
		router.Use(requestMetrics(monitor))
	}

	// 注册路由
	setupRoutes(router, chatHandler, journalHandler, monitor, llm)

	// 创建HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return &Server{
		server: server,
		logger: logger,
	}
}

// Start 启动服务器
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// setupRoutes 设置路由
func setupRoutes(router *gin.Engine, chatHandler *handlers.ChatHandler, journalHandler *handlers.JournalHandler, monitor *monitoring.Monitor, llm service.TextGenerator) {
	// 健康检查，顺带探测推理服务是否在线
	router.GET("/health", func(c *gin.Context) {
		inference := "ok"
		if llm != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := llm.Ping(pingCtx); err != nil {
				inference = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"time":      time.Now().Unix(),
			"inference": inference,
		})
	})

	if monitor != nil {
		router.GET("/metrics", gin.WrapH(monitor.PrometheusHandler()))
	}

	// 业务 API，全部要求 X-User-ID 身份头
	api := router.Group("/api")
	api.Use(handlers.RequireIdentity())
	{
		api.POST("/chat", chatHandler.Chat)

		api.GET("/journals", journalHandler.List)
		api.POST("/journals/generate-from-chat", journalHandler.GenerateFromChat)
		api.GET("/journals/mood-trends", journalHandler.MoodTrends)
		api.DELETE("/journals/:id", journalHandler.Delete)
	}
}

// ginLogger Gin日志中间件
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// requestMetrics 请求指标中间件
func requestMetrics(monitor *monitoring.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		monitor.IncRequestTotal()
		monitor.RecordRequestLatency(time.Since(start))
		if c.Writer.Status() >= http.StatusInternalServerError {
			monitor.IncRequestFailed()
			monitor.IncError()
		} else {
			monitor.IncRequestSuccess()
		}
	}
}
