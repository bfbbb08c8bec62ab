package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/ports"
	mongodb "github.com/taskflow/taskflow-api/internal/infrastructure/db/mongo"
	"github.com/taskflow/taskflow-api/internal/infrastructure/db/postgres"
	"github.com/taskflow/taskflow-api/internal/infrastructure/db/sqlite"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects and configures one storage backend.
type Config struct {
	Driver      string
	MongoURI    string
	MongoDB     string
	PostgresURL string
	SQLitePath  string
	Timeout     time.Duration
}

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver        string
	Accounts      ports.AccountRepository
	Profiles      ports.ProfileRepository
	Roles         ports.RoleRepository
	Tasks         ports.TaskRepository
	Notifications ports.NotificationRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case DriverMongo, "":
		return openMongo(ctx, cfg, log)
	case DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case DriverSQLite:
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func openMongo(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	client, database, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDB, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		log.Warn().Err(err).Msg("failed to ensure mongo indexes")
	}
	log.Info().Str("database", cfg.MongoDB).Msg("connected to MongoDB")

	return &Store{
		Driver:        DriverMongo,
		Accounts:      mongodb.NewAccountRepository(database),
		Profiles:      mongodb.NewProfileRepository(database),
		Roles:         mongodb.NewRoleRepository(database),
		Tasks:         mongodb.NewTaskRepository(database),
		Notifications: mongodb.NewNotificationRepository(database),
		ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:         client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("connected to PostgreSQL")

	return &Store{
		Driver:        DriverPostgres,
		Accounts:      postgres.NewAccountRepository(pool),
		Profiles:      postgres.NewProfileRepository(pool),
		Roles:         postgres.NewRoleRepository(pool),
		Tasks:         postgres.NewTaskRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		ping:          pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLite(cfg Config, log zerolog.Logger) (*Store, error) {
	conn, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")

	return &Store{
		Driver:        DriverSQLite,
		Accounts:      sqlite.NewAccountRepository(conn),
		Profiles:      sqlite.NewProfileRepository(conn),
		Roles:         sqlite.NewRoleRepository(conn),
		Tasks:         sqlite.NewTaskRepository(conn),
		Notifications: sqlite.NewNotificationRepository(conn),
		ping:          conn.PingContext,
		close:         func(context.Context) error { return conn.Close() },
	}, nil
}
