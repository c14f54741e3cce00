package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/inventory-reservation/docs"
	"github.com/tair/inventory-reservation/internal/inventory"
	"github.com/tair/inventory-reservation/internal/inventory/client"
	httpDelivery "github.com/tair/inventory-reservation/internal/inventory/delivery/http"
	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/internal/inventory/repository"
	"github.com/tair/inventory-reservation/internal/inventory/sweeper"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/kafka"
	"github.com/tair/inventory-reservation/pkg/database"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-reservation-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting inventory reservation service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	// Optional catalog service client
	var catalog domain.CatalogGateway
	if catalogURL := getEnv("CATALOG_SERVICE_URL", ""); catalogURL != "" {
		catalog = client.NewCatalogClient(catalogURL)
		logger.Logger.Info().Str("catalog_url", catalogURL).Msg("Catalog client initialized")
	} else {
		logger.Logger.Warn().Msg("CATALOG_SERVICE_URL not set, lazy provisioning and catalog sync disabled")
	}

	// Optional Kafka event publisher
	var events domain.EventPublisher
	var publisher *kafka.Publisher
	brokers := splitList(getEnv("KAFKA_BROKERS", ""))
	if len(brokers) > 0 {
		publisher, err = kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
		events = publisher
	} else {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, event publishing disabled")
	}

	// Storage backend
	var app *inventory.App
	var sqlDB *sql.DB
	if getEnv("STORAGE_BACKEND", "postgres") == "memory" {
		logger.Logger.Warn().Msg("Using in-memory storage, data will not survive restarts")
		app, err = inventory.InitializeAppWithRepository(repository.NewMemoryInventoryRepository(), catalog, events)
	} else {
		dbConfig := database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "inventorydb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		}

		db, dbErr := database.NewGormConnection(dbConfig)
		if dbErr != nil {
			logger.Logger.Fatal().Err(dbErr).Msg("Failed to connect to database")
		}

		sqlDB, err = db.DB()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
		}
		defer sqlDB.Close()

		// Run migrations
		if err := db.AutoMigrate(&domain.InventoryRecord{}); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}

		logger.Logger.Info().Msg("Database initialized successfully")

		app, err = inventory.InitializeApp(db, catalog, events)
	}
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Expired reservation sweeper
	sweepInterval := getEnvDuration("SWEEP_INTERVAL", time.Minute)
	sw := sweeper.New(app.Sweep, sweepInterval)
	sw.Start(ctx)

	// Catalog reconciliation loop
	var syncLoop *sweeper.CatalogSyncLoop
	if catalog != nil {
		syncInterval := getEnvDuration("CATALOG_SYNC_INTERVAL", time.Hour)
		syncLoop = sweeper.NewCatalogSyncLoop(app.Initialize, app.Sync, syncInterval)
		syncLoop.Start(ctx)
	}

	// Order event consumer
	var consumer *kafka.Consumer
	if len(brokers) > 0 {
		groupID := getEnv("KAFKA_CONSUMER_GROUP", "inventory-reservation-service")
		consumer, err = kafka.NewConsumer(brokers, groupID, []string{kafka.TopicOrderEvents})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		defer consumer.Close()

		registerOrderHandlers(consumer, app)

		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
		}
	}

	// Optional Redis response cache
	var redisClient *redis.Client
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		logger.Logger.Info().Str("redis_addr", redisAddr).Msg("Response cache enabled")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8082")
	server := buildHTTPServer(app.Handler, sqlDB, redisClient, httpPort)

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancel()
	sw.Wait()
	if syncLoop != nil {
		syncLoop.Wait()
	}

	logger.Logger.Info().Msg("Server stopped")
}

// registerOrderHandlers wires order lifecycle events into the batch use
// cases: payment completion confirms the order's holds, cancellation
// releases them.
func registerOrderHandlers(consumer *kafka.Consumer, app *inventory.App) {
	consumer.RegisterHandler(kafka.EventTypeOrderPaymentCompleted, func(ctx context.Context, event kafka.OrderEvent) error {
		items := make([]command.BatchItem, 0, len(event.Items))
		for _, item := range event.Items {
			items = append(items, command.BatchItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		_, err := app.ConfirmBatch.Handle(ctx, command.ConfirmBatchCommand{
			OrderID: event.OrderID,
			Items:   items,
		})
		return err
	})

	consumer.RegisterHandler(kafka.EventTypeOrderCancelled, func(ctx context.Context, event kafka.OrderEvent) error {
		reason := event.Reason
		if reason == "" {
			reason = "Order cancelled"
		}

		_, err := app.ReleaseBatch.Handle(ctx, command.ReleaseBatchCommand{
			OrderID: event.OrderID,
			Reason:  reason,
		})
		return err
	})
}

func buildHTTPServer(handler *httpDelivery.InventoryHandler, db *sql.DB, redisClient *redis.Client, port string) *http.Server {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	if redisClient != nil {
		router.Use(httpDelivery.CacheMiddleware(redisClient, httpDelivery.DefaultCacheConfig()))
	}

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)

	return &http.Server{
		Addr:    ":" + port,
		Handler: httpDelivery.SetupCORS(middlewareConfig)(router),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Logger.Warn().
			Str("key", key).
			Str("value", value).
			Dur("default", defaultValue).
			Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
