// Package http is a thin HTTP adapter over the invoice engine: it
// translates requests into assembler/repository/report calls and owns no
// business rules.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(config ServerConfig, handlers *Handlers, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		handlers: handlers,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)

	api := s.router.Group("/api/v1")
	{
		api.POST("/invoices", s.handlers.CreateInvoice)
		api.GET("/invoices", s.handlers.ListInvoices)
		api.GET("/invoices/:number", s.handlers.GetInvoice)
		api.GET("/invoices/:number/pdf", s.handlers.GetInvoicePDF)

		api.GET("/customers", s.handlers.ListCustomers)

		reports := api.Group("/reports")
		{
			reports.GET("/monthly-revenue", s.handlers.MonthlyRevenue)
			reports.GET("/hsn-summary", s.handlers.HSNSummary)
			reports.GET("/tax-summary", s.handlers.TaxRateSummary)
			reports.GET("/export", s.handlers.ExportReports)
		}
	}
}

// Start begins serving. It blocks until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
