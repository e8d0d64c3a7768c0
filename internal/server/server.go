package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"TradeTrends/internal/collector"
	"TradeTrends/internal/news"
	"TradeTrends/internal/pipeline"
	"TradeTrends/internal/recorder"
)

const shutdownTimeout = 10 * time.Second

// Runner executes one pipeline refresh.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)
}

// Server is the dashboard HTTP API.
type Server struct {
	Addr           string
	StreamInterval time.Duration

	Pipeline  Runner
	Collector *collector.Collector
	News      news.Source
	Recorder  recorder.Recorder

	engine *gin.Engine
}

// New builds the router. Debug enables gin's debug mode and request logging.
func New(addr string, debug bool, p Runner, col *collector.Collector, src news.Source, rec recorder.Recorder) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{
		Addr:           addr,
		StreamInterval: 15 * time.Second,
		Pipeline:       p,
		Collector:      col,
		News:           src,
		Recorder:       rec,
		engine:         gin.New(),
	}
	s.engine.Use(gin.Recovery())
	if debug {
		s.engine.Use(gin.Logger())
	}
	s.engine.Use(cors())
	s.setupRoutes()
	return s
}

// localOrigin reports whether origin is a dashboard served from this machine.
func localOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:")
}

// cors allows local dashboards served from another port.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if localOrigin(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/presets", s.getPresets)
	api.GET("/series/:symbol", s.getSeries)
	api.GET("/forecast/:symbol", s.getForecast)
	api.GET("/news/:symbol", s.getNews)
	api.GET("/snapshot/:symbol", s.getSnapshot)
	api.GET("/runs", s.getRuns)

	s.engine.GET("/ws/snapshot/:symbol", s.streamSnapshot)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] dashboard API listening on %s", s.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[INFO] shutting down dashboard API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
