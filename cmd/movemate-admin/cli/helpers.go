package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"movemate-admin/internal/config"
	"movemate-admin/internal/seed"
	"movemate-admin/internal/session"
	"movemate-admin/internal/store"
	"movemate-admin/internal/store/memory"
	"movemate-admin/internal/store/postgres"
)

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// backend is the user directory chosen by configuration.
type backend struct {
	dir   store.Directory
	name  string
	ping  func(context.Context) error
	close func()
}

// openDirectory uses PostgreSQL when a database URL is configured and the
// in-memory store otherwise. Both are seeded from the fixture file.
func openDirectory(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	fixtures, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	users, err := seed.Build(fixtures, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		logger.Info("using memory store", "users", len(users))
		return &backend{
			dir:   memory.NewStore(users),
			name:  "memory",
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}

	pg, err := postgres.NewStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("init postgres store: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	n, err := pg.Seed(ctx, users)
	if err != nil {
		pg.Close()
		return nil, err
	}
	logger.Info("using postgres store", "seeded", n)
	return &backend{dir: pg, name: "postgres", ping: pg.Ping, close: pg.Close}, nil
}

// storageBackend is the client storage chosen by configuration.
type storageBackend struct {
	store session.Store
	ping  func(context.Context) error
	// sweep drops expired entries; nil when the backend expires keys itself.
	sweep func() int
	close func()
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storageBackend, error) {
	if cfg.RedisAddr == "" {
		logger.Info("using memory session storage")
		mem := session.NewMemoryStore(cfg.DurableTTL, cfg.TabTTL)
		return &storageBackend{
			store: mem,
			ping:  func(context.Context) error { return nil },
			sweep: mem.Sweep,
			close: func() {},
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	rs := session.NewRedisStore(rdb, "", cfg.DurableTTL, cfg.TabTTL)
	if err := rs.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	logger.Info("using redis session storage", "addr", cfg.RedisAddr)
	return &storageBackend{
		store: rs,
		ping:  rs.Ping,
		close: func() { _ = rdb.Close() },
	}, nil
}
