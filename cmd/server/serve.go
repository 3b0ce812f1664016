package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-retail-service/config"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/category"
	catRepoPkg "github.com/fekuna/omnipos-retail-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-retail-service/internal/category/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/database"
	"github.com/fekuna/omnipos-retail-service/internal/graph"
	"github.com/fekuna/omnipos-retail-service/internal/i18n"
	"github.com/fekuna/omnipos-retail-service/internal/insight"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	ledgerListenerPkg "github.com/fekuna/omnipos-retail-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/fekuna/omnipos-retail-service/internal/ledger/repository"
	ledgerUCPkg "github.com/fekuna/omnipos-retail-service/internal/ledger/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	orderRepoPkg "github.com/fekuna/omnipos-retail-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-retail-service/internal/order/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-retail-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-retail-service/internal/product/usecase"
	reportUCPkg "github.com/fekuna/omnipos-retail-service/internal/report/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/search"
	"github.com/fekuna/omnipos-retail-service/internal/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type repositories struct {
	categories category.Repository
	products   product.Repository
	orders     order.Repository
	ledger     ledger.Repository
	ping       func(ctx context.Context) error
	close      func() error
}

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	return logger.NewZapLogger(logConfig)
}

func openRepositories(cfg *config.Config, log logger.ZapLogger) (*repositories, error) {
	switch cfg.Server.StorageDriver {
	case "memory":
		s := memory.NewStore()
		log.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			categories: s.Categories(),
			products:   s.Products(),
			orders:     s.Orders(),
			ledger:     s.Ledger(),
			close:      func() error { return nil },
		}, nil
	case "postgres":
		db, err := database.NewPostgres(dbConfig(cfg))
		if err != nil {
			return nil, errors.Wrap(err, "connect to postgres")
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return &repositories{
			categories: catRepoPkg.NewPGRepository(db),
			products:   prodRepoPkg.NewPGRepository(db),
			orders:     orderRepoPkg.NewPGRepository(db),
			ledger:     ledgerRepoPkg.NewPGRepository(db),
			ping:       db.PingContext,
			close:      db.Close,
		}, nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Server.StorageDriver)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(cfg, appLogger)
	if err != nil {
		return err
	}
	defer repos.close()

	// Optional infrastructure. Each piece is skipped when unconfigured.
	var cacheStore cache.Store
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return errors.Wrap(err, "connect to redis")
		}
		defer redisClient.Close()
		cacheStore = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher broker.Publisher
	var inbound *broker.KafkaConsumer
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.LedgerTopic})
		defer producer.Close()
		publisher = producer

		inbound = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.InboundTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer inbound.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("ledger_topic", cfg.Kafka.LedgerTopic), zap.String("inbound_topic", cfg.Kafka.InboundTopic))
	}

	var index product.SearchIndex
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err == nil {
			var productIndex *search.ProductIndex
			productIndex, err = search.NewProductIndex(ctx, esClient)
			if err == nil {
				index = productIndex
			}
		}
		if err != nil {
			// Search falls back to the database
			appLogger.Warn("Could not connect to Elasticsearch", zap.Error(err))
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	translator, err := i18n.New(cfg.Locale.DefaultLocale)
	if err != nil {
		return err
	}
	formatter := money.NewFormatter(cfg.Locale.CurrencyCode)

	catUC := catUCPkg.NewCategoryUseCase(repos.categories, cacheStore, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, repos.categories, cacheStore, cfg.Redis.TTL, index, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(repos.orders, repos.products, cacheStore, publisher, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(repos.ledger, cacheStore, publisher, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(repos.ledger, repos.orders, repos.products, repos.categories, appLogger)
	posSvc := pos.NewService(pos.NewRegistry(), prodUC, ledgerUC, appLogger)

	var insightSvc *insight.Service
	if cfg.Insight.Endpoint != "" {
		client := insight.NewClient(&insight.Config{
			Endpoint: cfg.Insight.Endpoint,
			APIKey:   cfg.Insight.APIKey,
			Timeout:  cfg.Insight.Timeout,
		})
		insightSvc = insight.NewService(reportUC, insight.NewPool(client, appLogger), formatter, translator)
	}

	schema, err := graph.NewSchema(graph.Deps{
		Categories: catUC,
		Products:   prodUC,
		Orders:     orderUC,
		Ledger:     ledgerUC,
		Reports:    reportUC,
		POS:        posSvc,
		Formatter:  formatter,
		Translator: translator,
		Logger:     appLogger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr: normalizePort(cfg.Server.HTTPPort),
		Handler: server.NewRouter(server.Deps{
			Schema:    schema,
			Insights:  insightSvc,
			Orders:    orderUC,
			Products:  prodUC,
			Formatter: formatter,
			Logger:    appLogger,
			Ping:      repos.ping,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer, healthServer := server.NewGRPCServer(appLogger)
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		return errors.Wrap(err, "listen grpc")
	}
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})
	g.Go(func() error {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		return errors.Wrap(grpcServer.Serve(lis), "serve grpc")
	})
	if inbound != nil {
		listener := ledgerListenerPkg.NewInboundListener(inbound, ledgerUC, appLogger)
		g.Go(func() error {
			listener.Start(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return errors.Wrap(err, "shutdown http")
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
