package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"pulseboard/config"
	"pulseboard/internal/handler"
	"pulseboard/internal/middleware"
	"pulseboard/internal/redis"
	"pulseboard/internal/services"
	"pulseboard/internal/transport/httpdto"
	"pulseboard/internal/websocket"
	"pulseboard/pkg/database"
	"pulseboard/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	pool       *pgxpool.Pool
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Post   *handler.PostHandler
	Upload *handler.UploadHandler
	Notify *handler.NotifyHandler
	WS     *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger, pool *pgxpool.Pool) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
		pool:   pool,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), s.pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authed := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	auth.Use(middleware.RateLimitAuth(limiter, s.logger))
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", authed, handlers.Auth.Logout)
		auth.POST("/logout-all", authed, handlers.Auth.LogoutAll)
	}

	users := s.engine.Group("/v1/users", authed, middleware.RateLimitAPI(limiter, s.logger))
	{
		users.GET("", middleware.RequireAdmin(), handlers.User.List)
		users.GET("/me", handlers.User.GetProfile)
		users.GET("/:id", handlers.User.GetByID)
		users.PATCH("/me", handlers.User.UpdateProfile)
		users.DELETE("/:id", handlers.User.DeleteProfile)
	}

	posts := s.engine.Group("/v1/posts", authed, middleware.RateLimitAPI(limiter, s.logger))
	{
		posts.POST("", handlers.Post.Create)
		posts.GET("", handlers.Post.List)
		posts.GET("/:id", handlers.Post.GetByID)
		posts.PATCH("/:id", handlers.Post.Update)
		posts.DELETE("/:id", handlers.Post.Delete)
	}

	uploads := s.engine.Group("/v1/uploads", authed, middleware.RateLimitAPI(limiter, s.logger))
	{
		uploads.POST("/presign", handlers.Upload.Presign)
		uploads.POST("/:id/complete", handlers.Upload.Complete)
		uploads.GET("/:id", handlers.Upload.GetByID)
	}

	notifyGroup := s.engine.Group("/v1/notify", authed)
	{
		notifyGroup.POST("/users/:id", handlers.Notify.SendToUser)
		notifyGroup.GET("/users/:id/status", handlers.Notify.ConnectionStatus)
		notifyGroup.POST("/broadcast", middleware.RequireAdmin(), handlers.Notify.Broadcast)
		notifyGroup.GET("/connections", middleware.RequireAdmin(), handlers.Notify.ListConnections)
	}

	s.engine.GET("/v1/ws", handlers.WS.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
