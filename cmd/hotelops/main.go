package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"hotelops/internal/app/commands"
	dashboardapp "hotelops/internal/app/handlers/dashboard"
	pricingapp "hotelops/internal/app/handlers/pricing"
	"hotelops/internal/app/metrics"
	"hotelops/internal/app/middleware"
	"hotelops/internal/app/policies"
	"hotelops/internal/app/queries"
	"hotelops/internal/infra/broker/kafka"
	cachememory "hotelops/internal/infra/cache/memory"
	cacheredis "hotelops/internal/infra/cache/redis"
	"hotelops/internal/infra/config"
	mongostore "hotelops/internal/infra/db/mongo"
	ginserver "hotelops/internal/infra/http/gin"
	"hotelops/internal/infra/obs"
	"hotelops/internal/infra/storage/memory"
	"hotelops/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev", slog.LevelInfo).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, obs.ParseLevel(cfg.LogLevel))

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		app.close(logger)
		os.Exit(1)
	}
	defer app.close(logger)

	if app.consumer != nil {
		topics := kafka.InvalidationTopics(cfg.KafkaTopicPrefix)
		go func() {
			logger.Info("invalidation consumer starting", "topics", topics, "group", cfg.KafkaGroupID)
			if err := app.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("invalidation consumer stopped", "error", err)
			}
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: app.checks}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store, "metrics_cache", cfg.MetricsCache)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	checks   map[string]obs.Check
	consumer *kafka.Consumer
	closers  []func(context.Context) error
}

func (a *application) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{checks: map[string]obs.Check{}}

	store, err := buildStore(ctx, cfg, logger, app)
	if err != nil {
		return app, err
	}
	cache, err := buildCache(ctx, cfg, logger, app)
	if err != nil {
		return app, err
	}

	facade := metrics.NewFacade(store, cache,
		metrics.WithLogger(logger),
		metrics.WithReadTimeout(cfg.StoreReadTimeout),
	)

	source := instanceSource()
	var publisher policies.EventPublisher
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return app, err
		}
		app.onClose(func(context.Context) error { return producer.Close() })
		publisher = kafka.EventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix, Source: source}

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, &kafka.InvalidationHandler{
			Metrics: facade,
			Source:  source,
			Logger:  logger,
		}, logger)
		if err != nil {
			return app, err
		}
		app.onClose(func(context.Context) error { return consumer.Close() })
		app.consumer = consumer
		logger.Info("kafka enabled", "brokers", cfg.KafkaBrokers, "source", source)
	}

	var archiver policies.SnapshotArchiver
	if cfg.SnapshotsEnabled() {
		a, err := s3.NewArchiver(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			UseSSL:         cfg.S3UseSSL,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
		}, logger)
		if err != nil {
			return app, err
		}
		app.checks["s3"] = a.Ping
		archiver = a
		logger.Info("snapshot archive enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, dashboardapp.GetMetricsQuery{}.Key(), &dashboardapp.GetMetricsHandler{
		Metrics: facade,
	})
	queries.RegisterHandler(queryBus, pricingapp.QuoteStayQuery{}.Key(), &pricingapp.QuoteStayHandler{
		Logger: logger,
		Store:  store,
	})
	queries.RegisterHandler(queryBus, pricingapp.PricingWarningsQuery{}.Key(), &pricingapp.PricingWarningsHandler{
		Logger: logger,
		Store:  store,
	})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, dashboardapp.ClearCacheCommand{}.Key(), &dashboardapp.ClearCacheHandler{
		Logger:    logger,
		Metrics:   facade,
		Publisher: publisher,
	})
	commands.RegisterHandler(commandBus, dashboardapp.ArchiveSnapshotCommand{}.Key(), &dashboardapp.ArchiveSnapshotHandler{
		Logger:   logger,
		Metrics:  facade,
		Archiver: archiver,
	})

	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(),
	)
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Logging(logger),
		middleware.Validation(),
	)

	app.handlers = ginserver.Handlers{
		Dashboard: ginserver.DashboardHandler{
			Logger:   logger,
			Queries:  queryBusWithMiddleware,
			Commands: commandBusWithMiddleware,
		},
		Pricing: ginserver.PricingHandler{
			Logger:  logger,
			Queries: queryBusWithMiddleware,
		},
	}
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger, app *application) (policies.HotelStore, error) {
	if cfg.Store == config.StoreMongo {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.onClose(client.Close)
		app.checks["mongo"] = client.Ping

		store := mongostore.NewHotelStore(client.DB)
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo index setup failed", "error", err)
		}
		logger.Info("mongo store connected", "database", cfg.MongoDB)
		return store, nil
	}

	store := memory.NewStore()
	path := cfg.FixturesPath
	if path == "" {
		path = defaultFixturesPath()
	}
	summary, err := memory.LoadFixtureFile(store, path, time.Now())
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("fixtures file not found, starting empty", "path", path)
	case err != nil:
		return nil, fmt.Errorf("load fixtures %s: %w", path, err)
	default:
		logger.Info("fixtures imported",
			"path", path,
			"hotels", summary.Hotels,
			"room_types", summary.RoomTypes,
			"rooms", summary.Rooms,
			"reservations", summary.Reservations,
			"service_orders", summary.ServiceOrders,
		)
	}
	return store, nil
}

func buildCache(ctx context.Context, cfg config.Config, logger *slog.Logger, app *application) (metrics.Cache, error) {
	if cfg.MetricsCache != config.CacheRedis {
		return cachememory.NewCache(), nil
	}
	client, err := cacheredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	app.onClose(func(context.Context) error { return client.Close() })
	cache := cacheredis.NewCache(client, cfg.MetricsCacheTTL)
	app.checks["redis"] = cache.Ping
	logger.Info("redis metrics cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.MetricsCacheTTL)
	return cache, nil
}

// instanceSource names this process in published events.
func instanceSource() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()
	}
	return "hotelops/" + host
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "fixtures.json"),
		filepath.Join("..", "..", "data", "fixtures.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
