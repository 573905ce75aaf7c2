package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/broker"
	"storefront/internal/cart"
	"storefront/internal/redisclient"
	"storefront/internal/remote"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront",
		zap.String("env", cfg.Server.Env),
		zap.String("storage", cfg.Storage.Backend))

	tp, err := util.InitTracer("storefront", cfg.TraceEndpoint())
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	apiClient, err := remote.NewClient(cfg.API.URL, cfg.API.Timeout)
	if err != nil {
		logger.Fatal("Invalid API_URL", zap.Error(err))
	}

	redisAddr := cfg.Redis.Addr
	if redisAddr == "" && cfg.Storage.Backend == config.StorageRedis {
		redisAddr = "localhost:6379"
	}

	var redisClient *redisclient.Client
	if redisAddr != "" {
		redisClient, err = redisclient.NewClient(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", redisAddr))
	}

	ctx := context.Background()

	var storage cart.Storage
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		storage = cart.NewMemoryStorage()
	case config.StorageRedis:
		storage = redisClient
	case config.StoragePostgres:
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to prepare database schema", zap.Error(err))
		}
		logger.Info("Database connected")
		storage = db
	default:
		logger.Fatal("Unknown STORAGE_BACKEND", zap.String("backend", cfg.Storage.Backend))
	}

	// Interfaces stay nil unless Redis is configured.
	var (
		productCache service.ProductCache
		refreshLock  worker.RefreshLocker
	)
	if redisClient != nil {
		productCache = redisClient
		refreshLock = redisClient
	}

	catalogService := service.NewCatalogService(apiClient, productCache, cfg.Catalog.CacheTTL)

	var events service.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCartEvents)
		defer producer.Close()
		events = broker.NewEventPublisher(producer, cfg.Storage.CartKey)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	cartStore := cart.NewStore(ctx, storage, cfg.Storage.CartKey)
	cartService := service.NewCartService(cartStore, catalogService, events)

	session := service.NewSession(apiClient)
	session.Init(ctx)

	recipeService := service.NewRecipeService(apiClient)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var catalogWorker *worker.CatalogWorker
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalogEvent, cfg.Kafka.ConsumerGroup)
		catalogWorker = worker.NewCatalogWorker(consumer, catalogService, refreshLock)
		go func() {
			if err := catalogWorker.Start(workerCtx); err != nil {
				logger.Error("Catalog worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, cartService, recipeService, session)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if catalogWorker != nil {
		if err := catalogWorker.Stop(); err != nil {
			logger.Warn("Failed to stop catalog worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
