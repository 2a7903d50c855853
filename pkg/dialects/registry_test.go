// pkg/dialects/registry_test.go
package dialects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/schemasync/pkg/config"
	"github.com/chmenegatti/schemasync/pkg/dialects/common"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// --- Mocks/Stubs for testing ---

type mockDataSource struct {
	dialect common.Dialect
}

func (m *mockDataSource) Connect(cfg config.DatabaseConfig) error                  { return nil }
func (m *mockDataSource) Ping(ctx context.Context) error                           { return nil }
func (m *mockDataSource) BeginTx(ctx context.Context, opts any) (common.Tx, error) { return nil, nil }
func (m *mockDataSource) Exec(ctx context.Context, query string, args ...any) (common.Result, error) {
	return nil, nil
}
func (m *mockDataSource) QueryRow(ctx context.Context, query string, args ...any) common.RowScanner {
	return nil
}
func (m *mockDataSource) Query(ctx context.Context, query string, args ...any) (common.Rows, error) {
	return nil, nil
}
func (m *mockDataSource) Close() error            { return nil }
func (m *mockDataSource) Dialect() common.Dialect { return m.dialect }

type mockDialect struct{ name string }

func (m *mockDialect) Name() string                           { return m.name }
func (m *mockDialect) QuoteIdent(name string) string          { return `"` + name + `"` }
func (m *mockDialect) QuoteLiteral(v any) (string, error)     { return "?", nil }
func (m *mockDialect) SupportsReturning() bool                { return false }
func (m *mockDialect) MapField(name string, f *schema.Field, r common.ReferenceResolver) (*common.ColumnSpec, error) {
	return &common.ColumnSpec{TypeName: "mock"}, nil
}
func (m *mockDialect) DescribeTable(ctx context.Context, q common.Querier, table string) (*common.TableDescription, error) {
	return nil, nil
}

var _ common.Dialect = (*mockDialect)(nil)

func newMockDataSourceFactory(dialectName string) DataSourceFactory {
	return func() common.DataSource {
		return &mockDataSource{
			dialect: &mockDialect{name: dialectName},
		}
	}
}

func cleanupRegistry(t *testing.T) {
	t.Helper()
	driversMu.Lock()
	drivers = make(map[string]DataSourceFactory)
	driversMu.Unlock()
}

// --- Test Functions ---

func TestRegisterAndGet(t *testing.T) {
	cleanupRegistry(t)
	t.Cleanup(func() { cleanupRegistry(t) })

	Register("mock1", newMockDataSourceFactory("mock1"))
	retrievedFactory := Get("mock1")

	require.NotNil(t, retrievedFactory, "Factory 'mock1' should be found (not nil)")

	ds := retrievedFactory()
	require.NotNil(t, ds, "Factory should produce a DataSource")
	require.NotNil(t, ds.Dialect(), "DataSource should have a Dialect")
	assert.Equal(t, "mock1", ds.Dialect().Name(), "Dialect name should match")
}

func TestGet_NotFound(t *testing.T) {
	cleanupRegistry(t)
	t.Cleanup(func() { cleanupRegistry(t) })

	assert.Nil(t, Get("nonexistent"), "Getting a non-registered driver should return nil factory")
}

func TestRegister_DuplicatePanic(t *testing.T) {
	cleanupRegistry(t)
	t.Cleanup(func() { cleanupRegistry(t) })

	Register("mock-dup", newMockDataSourceFactory("mock-dup"))
	assert.PanicsWithValue(t, "dialects: Register called twice for driver mock-dup", func() {
		Register("mock-dup", newMockDataSourceFactory("mock-dup-different-impl"))
	}, "Registering the same driver name twice should panic")
}

func TestRegister_NilFactoryPanic(t *testing.T) {
	cleanupRegistry(t)
	t.Cleanup(func() { cleanupRegistry(t) })

	assert.PanicsWithValue(t, "dialects: Register factory is nil", func() {
		Register("mock-nil", nil)
	}, "Registering a nil factory should panic")
}

func TestRegisteredDrivers(t *testing.T) {
	cleanupRegistry(t)
	t.Cleanup(func() { cleanupRegistry(t) })

	assert.Empty(t, RegisteredDrivers(), "Initially, no drivers should be registered")

	Register("mockA", newMockDataSourceFactory("mockA"))
	Register("mockB", newMockDataSourceFactory("mockB"))

	driverList := RegisteredDrivers()
	require.Len(t, driverList, 2, "Should list 2 registered drivers")
	assert.ElementsMatch(t, []string{"mockA", "mockB"}, driverList, "List should contain the registered driver names")
}
