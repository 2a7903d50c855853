// pkg/dialects/common/interfaces.go
package common

import (
	"context"
	"io"

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// Escaper is the escaping capability every dialect provides. All identifiers
// and literals that end up in SQL text pass through it; nothing above the
// dialect layer concatenates raw input into statements.
type Escaper interface {
	// QuoteIdent escapes a table or column identifier.
	QuoteIdent(name string) string
	// QuoteLiteral renders a Go value as a safely escaped SQL literal.
	// Unsupported value types are an error, never a lossy best effort.
	QuoteLiteral(v any) (string, error)
}

// ReferenceResolver resolves a registered model name to its table name.
// schema.Registry satisfies it; the indirection keeps the dialect layer free
// of model bookkeeping.
type ReferenceResolver interface {
	TableOf(model string) (string, error)
}

// Querier is the minimal query surface introspection needs. Both DataSource
// and Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Dialect defines the engine-specific pieces: escaping, the descriptor to
// column-spec mapping, and live-table introspection.
type Dialect interface {
	Escaper

	// Name returns the unique dialect name (e.g. "mysql").
	Name() string

	// MapField converts a field descriptor into the engine column spec.
	// Pure and total over valid descriptors; fails with a validation error
	// for a missing maxSize or an integer wider than the largest storage
	// class. Foreign-key targets resolve lazily through the resolver.
	MapField(name string, f *schema.Field, resolver ReferenceResolver) (*ColumnSpec, error)

	// DescribeTable introspects the live structure of a table through the
	// engine's structured metadata (information-schema style queries, not
	// re-parsed DDL text). An absent table returns (nil, nil). A malformed
	// introspection result fails the whole call.
	DescribeTable(ctx context.Context, q Querier, table string) (*TableDescription, error)

	// SupportsReturning reports whether INSERT ... RETURNING is available.
	// Engines without it fall back to a read-after-write.
	SupportsReturning() bool
}

// DataSource represents the configured data source managing connections.
// Analogous to sql.DB; one is acquired per logical operation.
type DataSource interface {
	io.Closer

	// Connect initializes the pool from configuration. Called internally by
	// schemasync.Open.
	Connect(cfg config.DatabaseConfig) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// BeginTx starts a transaction. opts may be sql.TxOptions or nil.
	BeginTx(ctx context.Context, opts any) (Tx, error)

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) (Result, error)

	// QueryRow runs a query expected to return at most one row.
	QueryRow(ctx context.Context, query string, args ...any) RowScanner

	// Query runs a query returning multiple rows.
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// Dialect returns the dialect backing this data source.
	Dialect() Dialect
}

// Tx is an active database transaction. Analogous to sql.Tx.
type Tx interface {
	Commit() error
	Rollback() error
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) RowScanner
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Result is the outcome of an Exec. Analogous to sql.Result.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Rows iterates a query result. Analogous to sql.Rows.
type Rows interface {
	io.Closer

	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
}

// RowScanner scans a single-row result. Analogous to sql.Row.
type RowScanner interface {
	Scan(dest ...any) error
}
