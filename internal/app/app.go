package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ostrauer/briefshelf-backend/internal/data/db"
	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/observability"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Hub      *sse.Hub

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	otelShutdown := observability.Init(context.Background(), log, observability.Config{
		ServiceName: "briefshelf-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := sse.NewHub(log)

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	repos := wireRepos(theDB, log)

	svcs, err := wireServices(theDB, log, repos, clients, hub)
	if err != nil {
		log.Sync()
		return nil, err
	}

	gate := middleware.NewAccessGate(log, clients.Identity, cfg.Gate)
	handlerSet := wireHandlers(log, repos, clients, svcs, gate, hub)
	router := wireRouter(log, cfg, gate, handlerSet)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        repos,
		Clients:      clients,
		Services:     svcs,
		Hub:          hub,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background pieces: the Redis forwarder feeding the SSE
// hub. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.EventBus != nil {
		if err := a.Clients.EventBus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
			a.Log.Warn("redis forwarder failed to start", "error", err)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.EventBus != nil {
		if err := a.Clients.EventBus.Close(); err != nil {
			a.Log.Warn("closing redis event bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
