// pkg/dialects/mysql/mysql.go
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // register driver

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/dialects"
	"github.com/chmenegatti/schemasync/pkg/dialects/common"
)

// --- Dialect Implementation ---

// mysqlDialect implements common.Dialect for MySQL/MariaDB.
type mysqlDialect struct{}

// NewDialect returns the MySQL dialect.
func NewDialect() common.Dialect {
	return &mysqlDialect{}
}

func (d *mysqlDialect) Name() string {
	return "mysql"
}

func (d *mysqlDialect) QuoteIdent(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

// QuoteLiteral renders a Go value as a MySQL literal. Strings and byte
// slices go through escapeString; numeric and boolean values render in the
// form the server itself uses for column defaults, so reconciliation can
// compare them textually.
func (d *mysqlDialect) QuoteLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case string:
		return "'" + escapeString(val) + "'", nil
	case []byte:
		return "'" + escapeString(string(val)) + "'", nil
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05") + "'", nil
	default:
		return "", fmt.Errorf("mysql: cannot render literal of type %T", v)
	}
}

// escapeString applies MySQL backslash escaping to the characters that
// terminate or alter a quoted string.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0x1a:
			b.WriteString(`\Z`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SupportsReturning is false for MySQL; inserts fall back to a
// read-after-write using LastInsertId or the written key values.
func (d *mysqlDialect) SupportsReturning() bool {
	return false
}

// --- DataSource Implementation ---

type mysqlDataSource struct {
	db      *sql.DB
	dialect common.Dialect
}

// Connect establishes the connection pool. parseTime is forced on so
// TIMESTAMP columns scan into time.Time.
func (ds *mysqlDataSource) Connect(cfg config.DatabaseConfig) error {
	if ds.db != nil {
		return fmt.Errorf("mysql datasource is already connected")
	}
	if cfg.Dialect != ds.dialect.Name() {
		return fmt.Errorf("configuration dialect '%s' does not match datasource dialect '%s'", cfg.Dialect, ds.dialect.Name())
	}
	if cfg.DSN == "" {
		return fmt.Errorf("database DSN is required in configuration")
	}

	dsn := cfg.DSN
	if !strings.Contains(dsn, "parseTime=true") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn = fmt.Sprintf("%s%sparseTime=true", dsn, separator)
	}

	db, err := sql.Open(ds.dialect.Name(), dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if cfg.Pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	if cfg.Pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.Pool.ConnMaxIdleTime)
	}
	if cfg.Pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping mysql database: %w", err)
	}

	ds.db = db
	return nil
}

func (ds *mysqlDataSource) Close() error {
	if ds.db == nil {
		return fmt.Errorf("mysql datasource is not connected")
	}
	err := ds.db.Close()
	ds.db = nil
	return err
}

func (ds *mysqlDataSource) Ping(ctx context.Context) error {
	if ds.db == nil {
		return fmt.Errorf("mysql datasource is not connected")
	}
	return ds.db.PingContext(ctx)
}

func (ds *mysqlDataSource) Dialect() common.Dialect {
	return ds.dialect
}

func (ds *mysqlDataSource) BeginTx(ctx context.Context, opts any) (common.Tx, error) {
	if ds.db == nil {
		return nil, fmt.Errorf("mysql datasource is not connected")
	}

	var txOptions *sql.TxOptions
	if sqlOpts, ok := opts.(sql.TxOptions); ok {
		txOptions = &sqlOpts
	} else if opts != nil {
		return nil, fmt.Errorf("unsupported transaction options type: %T", opts)
	}

	sqlTx, err := ds.db.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to begin mysql transaction: %w", err)
	}
	return &mysqlTx{tx: sqlTx}, nil
}

func (ds *mysqlDataSource) Exec(ctx context.Context, query string, args ...any) (common.Result, error) {
	if ds.db == nil {
		return nil, fmt.Errorf("mysql datasource is not connected")
	}
	res, err := ds.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql exec failed: %w", err)
	}
	return &mysqlResult{result: res}, nil
}

func (ds *mysqlDataSource) QueryRow(ctx context.Context, query string, args ...any) common.RowScanner {
	if ds.db == nil {
		return &errorRowScanner{err: fmt.Errorf("mysql datasource is not connected")}
	}
	return &mysqlRowScanner{row: ds.db.QueryRowContext(ctx, query, args...)}
}

func (ds *mysqlDataSource) Query(ctx context.Context, query string, args ...any) (common.Rows, error) {
	if ds.db == nil {
		return nil, fmt.Errorf("mysql datasource is not connected")
	}
	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql query failed: %w", err)
	}
	return &mysqlRows{rows: rows}, nil
}

// --- Tx Implementation ---

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) Commit() error   { return t.tx.Commit() }
func (t *mysqlTx) Rollback() error { return t.tx.Rollback() }
func (t *mysqlTx) Exec(ctx context.Context, query string, args ...any) (common.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql tx exec failed: %w", err)
	}
	return &mysqlResult{result: res}, nil
}
func (t *mysqlTx) QueryRow(ctx context.Context, query string, args ...any) common.RowScanner {
	return &mysqlRowScanner{row: t.tx.QueryRowContext(ctx, query, args...)}
}
func (t *mysqlTx) Query(ctx context.Context, query string, args ...any) (common.Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql tx query failed: %w", err)
	}
	return &mysqlRows{rows: rows}, nil
}

// --- Result / Rows / RowScanner wrappers ---

type mysqlResult struct{ result sql.Result }

func (r *mysqlResult) LastInsertId() (int64, error) { return r.result.LastInsertId() }
func (r *mysqlResult) RowsAffected() (int64, error) { return r.result.RowsAffected() }

type mysqlRows struct{ rows *sql.Rows }

func (r *mysqlRows) Close() error               { return r.rows.Close() }
func (r *mysqlRows) Next() bool                 { return r.rows.Next() }
func (r *mysqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *mysqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *mysqlRows) Err() error                 { return r.rows.Err() }

type mysqlRowScanner struct{ row *sql.Row }

func (rs *mysqlRowScanner) Scan(dest ...any) error { return rs.row.Scan(dest...) }

type errorRowScanner struct{ err error }

func (ers *errorRowScanner) Scan(dest ...any) error { return ers.err }

// --- Driver Registration ---

func init() {
	dialects.Register("mysql", func() common.DataSource {
		return &mysqlDataSource{
			dialect: &mysqlDialect{},
		}
	})
}
