// Package app wires configuration, storage and services into one value shared
// by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/api"
	"github.com/taskflow/taskflow-api/internal/api/handler"
	"github.com/taskflow/taskflow-api/internal/core/ports"
	"github.com/taskflow/taskflow-api/internal/core/service"
	"github.com/taskflow/taskflow-api/internal/infrastructure/config"
	"github.com/taskflow/taskflow-api/internal/infrastructure/db"
	"github.com/taskflow/taskflow-api/internal/infrastructure/db/redis"
	"github.com/taskflow/taskflow-api/internal/infrastructure/provision"
	"github.com/taskflow/taskflow-api/internal/infrastructure/queue"
)

const connectTimeout = 10 * time.Second

// App holds the long-lived dependencies of the process.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  *db.Store
	// Redis is nil unless REDIS_ENABLED is set.
	Redis      *goredis.Client
	Dispatcher *queue.Dispatcher

	Provisioner ports.UserProvisioner
	Sessions    *service.SessionService
	Boards      *service.TaskBoards
	Directories *service.UserDirectories
	Inboxes     *service.Inboxes
}

// New opens the store and optional Redis connection and builds the services.
// Call Close when done.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := db.Open(ctx, db.Config{
		Driver:      cfg.Storage.Driver,
		MongoURI:    cfg.Mongo.URI,
		MongoDB:     cfg.Mongo.Database,
		PostgresURL: cfg.Postgres.URL,
		SQLitePath:  cfg.SQLite.Path,
		Timeout:     connectTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &App{Config: cfg, Log: log, Store: store}

	var (
		publisher ports.NotificationPublisher = service.NopPublisher{}
		revoker   ports.TokenRevoker          = service.NewMemoryRevoker()
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		a.Redis = rdb
		a.Dispatcher = queue.NewDispatcher(cfg.Notify.Workers, redis.NewPublisher(rdb), log)
		publisher = a.Dispatcher
		revoker = redis.NewRevoker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, realtime notifications enabled")
	}

	if cfg.Provisioner.URL != "" {
		a.Provisioner = provision.NewRemote(ctx, cfg.Provisioner.URL, cfg.Provisioner.APIKey)
		log.Info().Str("url", cfg.Provisioner.URL).Msg("using remote user provisioner")
	} else {
		a.Provisioner = provision.NewLocal(store.Accounts, store.Profiles, store.Roles, log)
	}

	a.Sessions = service.NewSessionService(service.SessionDeps{
		Accounts:    store.Accounts,
		Roles:       store.Roles,
		Provisioner: a.Provisioner,
		Revoker:     revoker,
		Log:         log,
	}, cfg.JWTSecret, cfg.TokenTTL)
	a.Boards = service.NewTaskBoards(service.TaskBoardDeps{
		Tasks:         store.Tasks,
		Roles:         store.Roles,
		Notifications: store.Notifications,
		Publisher:     publisher,
		Log:           log,
	})
	a.Directories = service.NewUserDirectories(service.UserDirectoryDeps{
		Profiles:    store.Profiles,
		Roles:       store.Roles,
		Provisioner: a.Provisioner,
		Log:         log,
	})
	a.Inboxes = service.NewInboxes(store.Notifications, log)

	return a, nil
}

// Start launches background workers. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.Dispatcher != nil {
		a.Dispatcher.Start(ctx)
	}
}

// RouterDeps returns the HTTP wiring for this process.
func (a *App) RouterDeps() api.Deps {
	checks := map[string]handler.Pinger{
		a.Store.Driver: handler.PingFunc(a.Store.Ping),
	}
	if a.Redis != nil {
		checks["redis"] = handler.PingFunc(redis.Ping(a.Redis))
	}
	return api.Deps{
		Sessions:    a.Sessions,
		Boards:      a.Boards,
		Directories: a.Directories,
		Inboxes:     a.Inboxes,
		Readiness:   checks,
		Log:         a.Log,
	}
}

// Close waits for the dispatcher to flush buffered notifications, then releases
// connections. Cancel the context passed to Start before calling it.
func (a *App) Close(ctx context.Context) error {
	if a.Dispatcher != nil {
		a.Dispatcher.Wait()
	}
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := a.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
