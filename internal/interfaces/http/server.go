// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/upload"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

// Dependencies are the collaborators the server is built from. DB and Redis
// are optional.
type Dependencies struct {
	Storage  *storage.Provider
	Catalog  handlers.Catalog
	Users    user.Repository
	Uploader upload.Uploader
	Mailer   user.Mailer
	DB       *postgres.DB
	Redis    *redisdb.Client
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     logrus.FieldLogger
	deps       Dependencies
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with its routes registered
func NewServer(cfg *config.Config, logger logrus.FieldLogger, deps Dependencies) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		deps:      deps,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":       s.config.Server.Port,
		"static_dir": s.config.Server.StaticDir,
	}).Infof("Server running on port %s", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())

	// room for a full size image plus the multipart envelope
	s.gin.Use(middleware.RequestSizeLimit(s.config.Upload.MaxSize + 1<<20))
	s.gin.Use(middleware.Timeout(s.config.Server.WriteTimeout))

	s.gin.Use(middleware.Session(s.deps.Storage, middleware.CookieOptions{
		DeviceTTL: s.config.Storage.DeviceCookieTTL,
		Secure:    s.config.Storage.SecureCookies,
	}, s.logger))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)

	passwords := auth.NewPasswordManager(s.config)
	tokens := auth.NewJWTManager(s.config)

	userService := user.NewService(s.deps.Users, passwords, tokens, s.deps.Mailer, s.logger)
	adminService := user.NewAdminService(s.deps.Users, passwords, s.config.Users.DefaultResetPassword, s.logger)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(userService, s.logger),
		Cart:      handlers.NewCartHandler(s.deps.Catalog, pdf.NewService(s.config), s.logger),
		Product:   handlers.NewProductHandler(s.deps.Catalog, s.deps.Uploader, s.logger),
		Upload:    handlers.NewUploadHandler(s.deps.Uploader, s.logger),
		UserAdmin: handlers.NewUserAdminHandler(adminService, s.logger),
	}

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.BearerToken(tokens))
	if s.deps.Redis != nil && s.config.Security.RateLimitPerMinute > 0 {
		apiV1.Use(middleware.RateLimit(s.deps.Redis, s.config.Security.RateLimitPerMinute, s.logger))
	}
	routes.SetupRoutes(apiV1, h, s.config)

	if s.config.Upload.Provider == "local" {
		s.gin.Static(s.config.Upload.PublicPath, s.config.Upload.LocalPath)
	}

	loginPath := s.config.Server.LoginPath
	spa := handlers.NewSPAHandler(s.config.Server.StaticDir, loginPath, []string{
		loginPath + "/register",
		loginPath + "/recover",
		loginPath + "/reset-password",
	}, s.logger)
	s.gin.NoRoute(spa.Serve)
}

// healthCheck reports the state of the optional backing services
func (s *Server) healthCheck(c *gin.Context) {
	if s.deps.DB != nil {
		if err := s.deps.DB.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database ping failed",
			})
			return
		}
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}
