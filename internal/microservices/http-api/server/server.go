package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mrp/internal/config"
	"mrp/internal/microservices/http-api/handler"
	"mrp/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	engine *gin.Engine
	log    zerolog.Logger
}

func New(cfg *config.Config, db *gorm.DB, svc Services, log zerolog.Logger) *Server {
	s := &Server{cfg: cfg, db: db, engine: gin.New(), log: log}
	s.routes(svc)
	return s
}

func (s *Server) routes(svc Services) {
	r := s.engine
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.log))
	if s.cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", s.ready)

	api := r.Group("/api")
	api.Use(middleware.Timeout(s.cfg.RequestTimeout))
	api.Use(middleware.OptionalAuth(svc.Sessions, s.log))

	handler.NewUserHandler(svc.Users, svc.Sessions, svc.Media, svc.Ratings, svc.Favorites, s.log).
		RegisterRoutes(api.Group("/users"))
	handler.NewMediaHandler(svc.Media, svc.Ratings, svc.Favorites, s.log).
		RegisterRoutes(api.Group("/media"))
	handler.NewRatingHandler(svc.Ratings, svc.Media, svc.Guard, s.log).
		RegisterRoutes(api.Group("/ratings"))
}

func (s *Server) ready(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
