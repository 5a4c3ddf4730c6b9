package main

import (
	"context"
	"log"
	"time"

	"pulseboard/config"
	"pulseboard/internal/handler"
	"pulseboard/internal/notify"
	"pulseboard/internal/redis"
	"pulseboard/internal/repository"
	"pulseboard/internal/server"
	"pulseboard/internal/services"
	"pulseboard/internal/storage"
	"pulseboard/internal/websocket"
	"pulseboard/pkg/database"
	"pulseboard/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.ApplyRawMigrations(ctx, pool, "migrations"); err != nil {
		log.Fatalf("Failed to apply raw migrations: %v", err)
	}

	redisClient, err := redis.NewClient(ctx, redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	s3Client, err := storage.NewClient(ctx, storage.S3Config{
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Endpoint:   cfg.S3Endpoint,
		PublicBase: cfg.S3PublicBase,
		PresignTTL: 15 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	uploadRepo := repository.NewUploadRepository(pool)

	registry := notify.NewRegistry(l.Logger)
	go runReaper(registry, time.Duration(cfg.ReapIntervalMin)*time.Minute)

	limiter := redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())
	cache := redis.NewCacheStore(redisClient, redis.DefaultCacheConfig())
	notifier := services.NewNotifier(registry)

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, cache, notifier)
	postService := services.NewPostService(postRepo, userRepo, notifier)
	uploadService := services.NewUploadS3Service(uploadRepo, s3Client, cfg.MaxUploadBytes)

	srv := server.New(cfg, l, pool)
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		Post:   handler.NewPostHandler(postService),
		Upload: handler.NewUploadHandler(uploadService),
		Notify: handler.NewNotifyHandler(registry),
		WS:     websocket.NewHandler(authService, registry, l.Logger),
	}, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// runReaper periodically sweeps connections whose channels are no longer
// open. It is a backstop for transports that died without firing their
// termination event.
func runReaper(registry *notify.Registry, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		registry.ReapInactive()
	}
}
