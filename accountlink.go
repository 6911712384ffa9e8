// Package accountlink maps identity-provider userinfo records onto a host
// account store and manages the provider linkage metadata on those accounts.
// The host's auth callback handler is the caller; this package owns
// normalization, create-or-update reconciliation and the metadata side
// channel.
package accountlink

import (
	"fmt"
	"log/slog"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/caasmo/accountlink/config"
	"github.com/caasmo/accountlink/core"
	"github.com/caasmo/accountlink/db/zombiezen"
)

// New creates a reconciler App from a config file path and options.
// Callers that manage their own config use core.NewApp directly.
func New(configPath string, opts ...core.Option) (*core.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load initial config", "error", err)
		return nil, err
	}

	allOpts := []core.Option{core.WithConfig(cfg)}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		slog.Error("failed to initialize core app", "error", err)
		return nil, err
	}

	return app, nil
}

// WithDbZombiezen configures the App to use the Zombiezen SQLite store with
// an existing pool. The caller is responsible for creating and managing the
// lifecycle of the provided pool; if the host application also accesses the
// database, the same pool must be shared to prevent SQLITE_BUSY errors.
func WithDbZombiezen(pool *sqlitex.Pool) core.Option {
	dbInstance, err := zombiezen.New(pool)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize zombiezen DB with existing pool: %v", err))
	}
	return core.WithDbApp(dbInstance)
}

// NewZombiezenPool creates a new Zombiezen SQLite connection pool with
// reasonable defaults (WAL mode enabled) and the module's schema applied.
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()
	initString := fmt.Sprintf("file:%s", dbPath)

	// zombiezen/sqlitex.NewPool with default options uses flags:
	// sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI
	pool, err := sqlitex.NewPool(initString, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}

	if err := zombiezen.Schema(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
