// pkg/dialects/mysql/introspect.go
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chmenegatti/schemasync/pkg/dialects/common"
)

// Introspection goes through information_schema rather than re-parsing the
// server-rendered SHOW CREATE TABLE output; the rendered DDL text varies
// across server versions while the metadata tables do not.
const (
	columnsQuery = `SELECT column_name, column_type, is_nullable, extra, column_default
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY ordinal_position`

	primaryKeyQuery = `SELECT column_name
FROM information_schema.key_column_usage
WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY'
ORDER BY ordinal_position`

	uniqueKeysQuery = `SELECT DISTINCT index_name
FROM information_schema.statistics
WHERE table_schema = DATABASE() AND table_name = ? AND non_unique = 0 AND index_name <> 'PRIMARY'
ORDER BY index_name`

	foreignKeysQuery = `SELECT constraint_name
FROM information_schema.table_constraints
WHERE table_schema = DATABASE() AND table_name = ? AND constraint_type = 'FOREIGN KEY'
ORDER BY constraint_name`
)

// DescribeTable fetches the live structure of a table. A table with no
// columns in information_schema is treated as absent and returns (nil, nil).
// Any scan failure aborts the whole description; reconciliation must never
// run against a partially read table.
func (d *mysqlDialect) DescribeTable(ctx context.Context, q common.Querier, table string) (*common.TableDescription, error) {
	desc := &common.TableDescription{Name: table}

	rows, err := q.Query(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("mysql: describing columns of %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name, colType, nullable, extra string
			colDefault                     sql.NullString
		)
		if err := rows.Scan(&name, &colType, &nullable, &extra, &colDefault); err != nil {
			return nil, fmt.Errorf("mysql: malformed column row for %s: %w", table, err)
		}
		col := common.ColumnDescription{
			Name:     name,
			Type:     colType,
			Nullable: nullable == "YES",
			Extra:    extra,
		}
		if colDefault.Valid {
			v := colDefault.String
			col.Default = &v
		}
		desc.Columns = append(desc.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: reading columns of %s: %w", table, err)
	}
	if len(desc.Columns) == 0 {
		return nil, nil // table absent
	}

	if desc.PrimaryKey, err = scanNames(ctx, q, primaryKeyQuery, table); err != nil {
		return nil, fmt.Errorf("mysql: describing primary key of %s: %w", table, err)
	}
	if desc.UniqueKeys, err = scanNames(ctx, q, uniqueKeysQuery, table); err != nil {
		return nil, fmt.Errorf("mysql: describing unique keys of %s: %w", table, err)
	}
	if desc.ForeignKeys, err = scanNames(ctx, q, foreignKeysQuery, table); err != nil {
		return nil, fmt.Errorf("mysql: describing foreign keys of %s: %w", table, err)
	}

	return desc, nil
}

func scanNames(ctx context.Context, q common.Querier, query, table string) ([]string, error) {
	rows, err := q.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
