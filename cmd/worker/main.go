package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/creatorlink/product-pipeline-go/internal/brands"
	"github.com/creatorlink/product-pipeline-go/internal/cms"
	"github.com/creatorlink/product-pipeline-go/internal/config"
	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
	"github.com/creatorlink/product-pipeline-go/internal/model"
	"github.com/creatorlink/product-pipeline-go/internal/parser"
	"github.com/creatorlink/product-pipeline-go/internal/pipeline"
	"github.com/creatorlink/product-pipeline-go/internal/queue"
	"github.com/creatorlink/product-pipeline-go/internal/retail"
	"github.com/creatorlink/product-pipeline-go/internal/service"
	"github.com/creatorlink/product-pipeline-go/internal/service/ollama"
	"github.com/creatorlink/product-pipeline-go/pkg/logger"
)

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

	videoRepo := repository.NewVideoRepository(pool)
	linkRepo := repository.NewProductLinkRepository(pool)
	brandRepo := repository.NewBrandRepository(pool)

	// Parsing and reconciliation
	brandDirectory := brands.NewDirectory(brandRepo, cfg.Parser.BrandCacheTTL)
	brandDirectory.Refresh(ctx)

	productParser := parser.NewProductParser(brandDirectory, model.ProductType(cfg.Parser.DefaultProductType))

	retailClient := retail.NewClient(retail.Config{
		AccessKey:          cfg.Retail.AccessKey,
		SecretKey:          cfg.Retail.SecretKey,
		PartnerTag:         cfg.Retail.PartnerTag,
		Marketplace:        cfg.Retail.Marketplace,
		Host:               cfg.Retail.Host,
		Region:             cfg.Retail.Region,
		SearchIndex:        cfg.Retail.SearchIndex,
		MinRequestInterval: cfg.Retail.MinRequestInterval,
		CacheTTL:           cfg.Retail.CacheTTL,
	})
	if !retailClient.Enabled() {
		logger.Log.Info("Retail search credentials not configured, enrichment disabled")
	}

	reconciler := pipeline.NewReconciler(retailClient, cfg.Retail.PartnerTag, cfg.Retail.SearchIndex)
	processor := pipeline.NewProcessor(productParser, reconciler, videoRepo, linkRepo)

	// Optional collaborators
	ollamaClient := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		APIKey:  cfg.Ollama.APIKey,
		Timeout: cfg.Ollama.Timeout,
	})
	if ollamaClient.Enabled() {
		processor.WithAnalyzer(ollamaClient)
		logger.Log.Info("Content analysis enabled", zap.String("model", cfg.Ollama.Model))
	} else {
		logger.Log.Info("Ollama not configured, content analysis disabled")
	}

	cmsClient := cms.NewClient(cms.Config{
		BaseURL:    cfg.CMS.BaseURL,
		Dataset:    cfg.CMS.Dataset,
		Token:      cfg.CMS.Token,
		APIVersion: cfg.CMS.APIVersion,
	})
	if cmsClient.Enabled() {
		processor.WithDraftPublisher(cmsClient)
		logger.Log.Info("CMS draft publishing enabled", zap.String("dataset", cfg.CMS.Dataset))
	} else {
		logger.Log.Info("CMS not configured, draft publishing disabled")
	}

	if cfg.RabbitMQ.Enabled {
		publisher, err := service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		processor.WithEventPublisher(publisher)
		logger.Log.Info("Draft event publishing enabled", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Log.Fatal("Invalid redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	processedCache := service.NewProcessedVideoCache(redisClient, videoRepo)
	if err := processedCache.LoadFromDB(ctx); err != nil {
		logger.Log.Warn("Failed to warm processed-video cache", zap.Error(err))
	}
	processor.WithProcessedMarker(processedCache)

	callbacks := queue.NewCallbackManager()
	callbacks.RegisterCallback(func(_ context.Context, result *pipeline.Result) error {
		logger.Log.Info("Pipeline run completed",
			zap.String("runId", result.RunID.String()),
			zap.String("videoId", result.VideoID),
			zap.Int("products", len(result.Products)),
			zap.String("draftId", result.DraftID),
		)
		return nil
	})

	taskHandler := queue.NewProcessVideoHandler(videoRepo, processor, processedCache, callbacks)

	server, err := queue.NewServer(cfg.Redis.URL, cfg.Worker.Concurrency, taskHandler)
	if err != nil {
		logger.Log.Fatal("Failed to create queue server", zap.Error(err))
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Worker starting", zap.Int("concurrency", cfg.Worker.Concurrency))
		if err := server.Run(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Log.Fatal("Worker error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))
		server.Stop()
		logger.Log.Info("Worker stopped gracefully")
	}
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
