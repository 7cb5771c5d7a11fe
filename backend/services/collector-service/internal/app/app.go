package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"multisib/backend/libs/db"
	libredis "multisib/backend/libs/redis"
	"multisib/backend/services/collector-service/internal/clients"
	"multisib/backend/services/collector-service/internal/config"
	httpserver "multisib/backend/services/collector-service/internal/http"
	"multisib/backend/services/collector-service/internal/http/handlers"
	"multisib/backend/services/collector-service/internal/mqtt"
	"multisib/backend/services/collector-service/internal/parser"
	redisstore "multisib/backend/services/collector-service/internal/redis"
	"multisib/backend/services/collector-service/internal/repository"
	"multisib/backend/services/collector-service/internal/service"
)

// App wires collector service dependencies.
type App struct {
	poller    *service.Poller
	server    *httpserver.Server
	db        *sql.DB
	redis     *redis.Client
	publisher *mqtt.Publisher
	logger    *zap.Logger
}

// New constructs application components. An unreachable database is logged
// and tolerated: the poller then fails every persist until restart.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	liveData, err := clients.NewMultiSIBClient(
		cfg.Endpoint.AddressIP,
		cfg.Endpoint.Port,
		cfg.Endpoint.APIKey,
		clients.NewDefaultHTTPClient(cfg.Poll.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	a.db = connectDB(cfg, logger)

	var mirrors []service.Mirror
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis mirror disabled", zap.Error(err))
		} else {
			a.redis = client
			mirrors = append(mirrors, redisstore.NewLatestStore(client, cfg.Redis.Key, cfg.Redis.TTL))
		}
	}
	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.Connect(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
		})
		if err != nil {
			logger.Warn("mqtt mirror disabled", zap.Error(err))
		} else {
			a.publisher = publisher
			mirrors = append(mirrors, publisher)
		}
	}

	snapshot := service.NewSnapshot()
	a.poller = service.NewPoller(
		liveData,
		parser.NewExtractor(logger),
		repository.NewTelemetryRepository(a.db),
		snapshot,
		service.PollerOptions{
			Table:     cfg.Database.Table,
			Interval:  cfg.Poll.Interval,
			DBTimeout: cfg.Poll.DBTimeout,
		},
		logger,
		mirrors...,
	)

	if addr := cfg.HTTPAddress(); addr != "" {
		router := httpserver.NewRouter(httpserver.Routes{
			Latest: handlers.NewLatestHandler(snapshot),
			Health: handlers.NewHealthHandler(),
		})
		server, err := httpserver.NewServer(addr, router, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.server = server
	}

	logger.Info("collector initialised",
		zap.String("endpoint", liveData.URLWithoutKey()),
		zap.Bool("db_connected", a.db != nil),
		zap.Int("mirrors", len(mirrors)),
	)
	return a, nil
}

func connectDB(cfg *config.Config, logger *zap.Logger) *sql.DB {
	dsn, err := cfg.DSN()
	if err != nil {
		logger.Error("error while connecting to the database", zap.Error(err))
		return nil
	}
	sqlDB, err := db.NewPostgresDB(dsn)
	if err != nil {
		logger.Error("error while connecting to the database", zap.Error(err))
		return nil
	}
	logger.Info("successful connection to the database")
	return sqlDB
}

// Run polls until ctx is cancelled, serving status endpoints alongside.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() { serverErr <- a.server.Run(ctx) }()
	}

	err := a.poller.Run(ctx)

	if a.server != nil {
		if sErr := <-serverErr; sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
			a.logger.Warn("status server stopped with error", zap.Error(sErr))
		}
	}
	return err
}

// Close releases resources.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
