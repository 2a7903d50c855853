// pkg/schemasync/schemasync.go

// Package schemasync is the public facade: it owns the connection, the model
// registry and the reconciliation flow, and exposes the validated query
// operations. Models are declared with pkg/schema descriptors, registered
// against a live connection, and queried with pkg/filter expression trees.
package schemasync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/dialects"
	"github.com/chmenegatti/schemasync/pkg/dialects/common"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// DB is the main handle. It is safe for concurrent use once Open returns.
type DB struct {
	source   common.DataSource
	dialect  common.Dialect
	registry *schema.Registry
	config   config.Config
	log      *slog.Logger
}

// Open connects a data source for the configured dialect and returns the DB
// handle. The dialect's driver package must have been blank-imported so its
// factory is registered.
func Open(cfg config.Config) (*DB, error) {
	dialectName := cfg.Database.Dialect
	if dialectName == "" {
		return nil, fmt.Errorf("schemasync: database dialect not specified in configuration")
	}

	factory := dialects.Get(dialectName)
	if factory == nil {
		return nil, fmt.Errorf("schemasync: unsupported or unregistered dialect %q (was the driver package blank-imported?)", dialectName)
	}

	ds := factory()
	if err := ds.Connect(cfg.Database); err != nil {
		return nil, fmt.Errorf("schemasync: failed to connect %q data source: %w", dialectName, err)
	}

	return NewDB(ds, cfg), nil
}

// NewDB builds a handle around an already-connected data source. Typically
// called via Open; exposed for tests that inject their own source.
func NewDB(source common.DataSource, cfg config.Config) *DB {
	if source == nil {
		panic("schemasync: cannot create DB with nil DataSource")
	}
	return &DB{
		source:   source,
		dialect:  source.Dialect(),
		registry: schema.NewRegistry(),
		config:   cfg,
		log:      newLogger(cfg.Logging),
	}
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.source.Close()
}

// Ping verifies connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.source.Ping(ctx)
}

// DataSource exposes the underlying data source for raw statements.
func (db *DB) DataSource() common.DataSource {
	return db.source
}

// Registry exposes the model registry, mostly for inspection.
func (db *DB) Registry() *schema.Registry {
	return db.registry
}

// newLogger builds the handle's slog logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
