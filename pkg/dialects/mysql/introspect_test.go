// pkg/dialects/mysql/introspect_test.go
package mysql

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/schemasync/pkg/dialects/common"
)

// sqlQuerier adapts a plain *sql.DB to common.Querier for introspection.
type sqlQuerier struct{ db *sql.DB }

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (common.Rows, error) {
	return q.db.QueryContext(ctx, query, args...)
}

func newMock(t *testing.T) (common.Querier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlQuerier{db: db}, mock
}

func TestDescribeTableAbsent(t *testing.T) {
	q, mock := newMock(t)
	d := &mysqlDialect{}

	mock.ExpectQuery(columnsQuery).
		WithArgs("ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "extra", "column_default"}))

	desc, err := d.DescribeTable(context.Background(), q, "ghosts")
	require.NoError(t, err)
	assert.Nil(t, desc)
}

func TestDescribeTable(t *testing.T) {
	q, mock := newMock(t)
	d := &mysqlDialect{}

	mock.ExpectQuery(columnsQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "extra", "column_default"}).
			AddRow("id", "int(10) unsigned", "NO", "auto_increment", nil).
			AddRow("email", "varchar(120)", "NO", "", nil).
			AddRow("age", "tinyint(3) unsigned", "YES", "", "18"))
	mock.ExpectQuery(primaryKeyQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery(uniqueKeysQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"index_name"}).AddRow("email"))
	mock.ExpectQuery(foreignKeysQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name"}).AddRow("group_id_fk"))

	desc, err := d.DescribeTable(context.Background(), q, "users")
	require.NoError(t, err)
	require.NotNil(t, desc)

	require.Len(t, desc.Columns, 3)
	assert.Equal(t, "id", desc.Columns[0].Name)
	assert.False(t, desc.Columns[0].Nullable)
	assert.Equal(t, "auto_increment", desc.Columns[0].Extra)
	assert.Nil(t, desc.Columns[0].Default)

	require.NotNil(t, desc.Columns[2].Default)
	assert.Equal(t, "18", *desc.Columns[2].Default)
	assert.True(t, desc.Columns[2].Nullable)

	assert.Equal(t, []string{"id"}, desc.PrimaryKey)
	assert.Equal(t, []string{"email"}, desc.UniqueKeys)
	assert.Equal(t, []string{"group_id_fk"}, desc.ForeignKeys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescribeTableMalformedRowFailsWholesale(t *testing.T) {
	q, mock := newMock(t)
	d := &mysqlDialect{}

	mock.ExpectQuery(columnsQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type"}).
			AddRow("id", "int(10) unsigned"))

	desc, err := d.DescribeTable(context.Background(), q, "users")
	assert.Error(t, err)
	assert.Nil(t, desc)
}
