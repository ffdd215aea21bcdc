package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/db"
	"github.com/yungbote/workspace-backend/internal/data/repos"
	httpapi "github.com/yungbote/workspace-backend/internal/http"
	httpH "github.com/yungbote/workspace-backend/internal/http/handlers"
	"github.com/yungbote/workspace-backend/internal/observability"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
	"github.com/yungbote/workspace-backend/internal/realtime"
	"github.com/yungbote/workspace-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    *db.Store
	Repos    *repos.Registry
	Metrics  *observability.Metrics
	Bus      bus.Bus
	Hub      *realtime.Hub
	Router   *gin.Engine
	shutdown func(context.Context) error
	cancel   context.CancelFunc
}

// New loads configuration and wires every component. Nothing is started.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}
	a := &App{Log: log, Cfg: cfg}
	a.shutdown = observability.InitOTel(ctx, log, cfg.otel())

	if cfg.MetricsEnabled {
		a.Metrics = observability.NewMetrics(cfg.MetricsScrapeInterval)
	}

	store, err := db.Open(log, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	a.Store = store

	a.Hub = realtime.NewHub(log)
	a.Bus = bus.Noop{}
	var events aggregates.Publisher = a.Hub
	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("init change bus: %w", err)
		}
		a.Bus = b
		events = b
	}

	deps := aggregates.Deps{
		Store:               instrumentStore(cfg.Store.Driver, store.Store, a.Metrics),
		Log:                 log,
		Events:              events,
		DefaultItemsPerPage: cfg.DefaultItemsPerPage,
		MaxCASAttempts:      cfg.CASMaxAttempts,
	}
	if a.Metrics != nil {
		deps.Hooks = a.Metrics
	}
	a.Repos = repos.NewRegistry(deps)

	health := map[string]httpH.Pinger{}
	if store.DB != nil {
		if sqlDB, err := store.DB.DB(); err == nil {
			health["database"] = sqlPinger{sqlDB}
		}
	}
	if rdb, ok := bus.Client(a.Bus); ok {
		health["redis"] = redisPinger{rdb}
	}

	a.Router = httpapi.NewRouter(httpapi.RouterConfig{
		Log:         log,
		Catalog:     a.Repos,
		Metrics:     a.Metrics,
		Health:      httpH.NewHealthHandler(health),
		Events:      httpH.NewEventsHandler(log, a.Hub),
		CORSOrigins: cfg.CORSOrigins,
		ServiceName: cfg.ServiceName,
	})
	return a, nil
}

// Start launches background work: the bus forwarder and metric collectors.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.Bus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
		return fmt.Errorf("start change forwarder: %w", err)
	}
	if a.Metrics != nil {
		a.Metrics.StartDBCollector(ctx, a.Log, a.Store.DB)
		if rdb, ok := bus.Client(a.Bus); ok {
			a.Metrics.StartRedisCollector(ctx, a.Log, rdb)
		}
	}
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + strconv.Itoa(a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	srv := &httpapi.Server{Engine: a.Router}
	return srv.Run(ctx, addr)
}

func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	var errs []error
	if a.Bus != nil {
		errs = append(errs, a.Bus.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
