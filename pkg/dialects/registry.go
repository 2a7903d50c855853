// pkg/dialects/registry.go
package dialects

import (
	"sync"

	"github.com/chmenegatti/schemasync/pkg/dialects/common"
)

// DataSourceFactory creates a new, not yet connected DataSource instance
// for a specific dialect.
type DataSourceFactory func() common.DataSource

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]DataSourceFactory)
)

// Register makes a DataSource driver available under the given name.
// It panics if Register is called twice with the same name or if the
// factory is nil. Driver packages call it from init; users select the
// driver via blank import.
func Register(name string, factory DataSourceFactory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if factory == nil {
		panic("dialects: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("dialects: Register called twice for driver " + name)
	}
	drivers[name] = factory
}

// Get retrieves a DataSourceFactory by dialect name, or nil when the
// dialect was never registered.
func Get(name string) DataSourceFactory {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return drivers[name]
}

// RegisteredDrivers returns the names of all registered drivers.
func RegisteredDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	return list
}
