package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorlink/product-pipeline-go/internal/config"
	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
	"github.com/creatorlink/product-pipeline-go/internal/handler"
	"github.com/creatorlink/product-pipeline-go/internal/middleware"
	"github.com/creatorlink/product-pipeline-go/internal/queue"
	"github.com/creatorlink/product-pipeline-go/internal/service"
	"github.com/creatorlink/product-pipeline-go/internal/validation"
	"github.com/creatorlink/product-pipeline-go/pkg/logger"
)

const maxDescriptionSize = 1 << 20 // 1 MiB

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, poolConfig(&cfg.Database))
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	videoRepo := repository.NewVideoRepository(pool)
	linkRepo := repository.NewProductLinkRepository(pool)

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Log.Fatal("Invalid redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	processedCache := service.NewProcessedVideoCache(redisClient, videoRepo)
	if err := processedCache.LoadFromDB(ctx); err != nil {
		logger.Log.Warn("Failed to warm processed-video cache, duplicate submissions may be re-enqueued",
			zap.Error(err),
		)
	}

	queueClient, err := queue.NewClient(cfg.Redis.URL)
	if err != nil {
		logger.Log.Fatal("Failed to create queue client", zap.Error(err))
	}
	defer queueClient.Close()

	validator := validation.New(maxDescriptionSize, true)
	videoService := service.NewVideoService(videoRepo, linkRepo, queueClient, processedCache, validator)
	videoHandler := handler.NewVideoHandler(videoService)

	// The broker is only published to by the worker; the server connects
	// solely so readiness reflects its health.
	var publisher *service.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Failed to connect to RabbitMQ, readiness will not track broker health",
				zap.Error(err),
			)
		} else {
			defer publisher.Close()
		}
	}

	var brokerHealth handler.BrokerHealth
	if publisher != nil {
		brokerHealth = publisher
	}
	healthHandler := handler.NewHealthHandler(pool, brokerHealth)

	router := buildRouter(cfg, videoHandler, healthHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			_ = server.Close()
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}

func buildRouter(cfg *config.Config, videoHandler *handler.VideoHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	if cfg.API.Key != "" {
		auth := middleware.NewAPIKeyAuth([]string{cfg.API.Key}, slog.Default())
		api.Use(auth.Gin())
	} else {
		logger.Log.Warn("No API key configured, API endpoints are unauthenticated")
	}

	api.POST("/videos", middleware.Metrics("submit_video"), videoHandler.SubmitVideo)
	api.GET("/videos/:id", middleware.Metrics("get_video"), videoHandler.GetVideo)
	api.GET("/videos/:id/products", middleware.Metrics("get_video_products"), videoHandler.GetVideoProducts)

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func poolConfig(cfg *config.DatabaseConfig) *db.Config {
	return &db.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Name,
		SSLMode:         "disable",
		MaxConns:        int32(cfg.MaxConnections),
		MinConns:        int32(cfg.MinConnections),
		MaxConnLifetime: cfg.MaxLifetime,
		MaxConnIdleTime: cfg.MaxIdleTime,
	}
}
