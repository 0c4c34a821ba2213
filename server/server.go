package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/service"
)

// TickerReader returns the latest ticker summary recorded for a date.
type TickerReader interface {
	Latest(ctx context.Context, date string) (string, error)
}

type Server struct {
	router   *gin.Engine
	config   *config.Config
	intake   *service.IntakeService
	ticker   TickerReader
	location *time.Location
	logger   *zap.Logger
	server   *http.Server
	now      func() time.Time
}

func NewServer(
	cfg *config.Config,
	intake *service.IntakeService,
	ticker TickerReader,
	location *time.Location,
	logger *zap.Logger,
) *Server {
	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:   gin.New(),
		config:   cfg,
		intake:   intake,
		ticker:   ticker,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestContext(), s.accessLog())

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Form intake
	s.router.POST("/contact", s.contact)
	s.router.POST("/quote", s.quote)
	s.router.POST("/sendmail", s.sendMail)

	// Ticker read for the landing page
	s.router.GET("/api/news", s.latestNews)
}

// Handler returns the router behind the CORS layer.
func (s *Server) Handler() http.Handler {
	return corsHandler(s.router)
}

func (s *Server) Start() error {
	addr := s.config.ListenAddr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("server starting",
		zap.String("addr", addr),
		zap.String("environment", s.config.App.Env))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
