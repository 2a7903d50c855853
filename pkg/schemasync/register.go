// pkg/schemasync/register.go
package schemasync

import (
	"context"
	"fmt"

	"github.com/chmenegatti/schemasync/pkg/migration"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// Register binds the model to this handle and reconciles its table: the
// live structure is introspected, diffed against the declared fields, and
// the resulting CREATE or ALTER executed. On success the model's readiness
// latch flips and query operations become available.
//
// Statements run sequentially without a wrapping transaction (MySQL commits
// DDL implicitly anyway); a failed registration leaves the model unready
// and can simply be retried.
func (db *DB) Register(ctx context.Context, m *schema.Model) error {
	if m.State() != schema.StateDefined {
		return schema.Validationf("", "model %s is already registered", m.Name)
	}

	// A retried registration finds the model in the registry already; adding
	// is skipped, the structural checks ran on the first attempt.
	if existing, ok := db.registry.Lookup(m.Name); ok {
		if existing != m {
			return schema.Validationf("", "a different model named %s is already registered", m.Name)
		}
	} else if err := db.registry.Add(m); err != nil {
		return err
	}

	cols, err := db.columnSpecs(m)
	if err != nil {
		return err
	}

	live, err := db.dialect.DescribeTable(ctx, db.source, m.TableName)
	if err != nil {
		return dbErr("register", err)
	}

	plan, err := migration.Plan(m.TableName, cols, live, db.dialect)
	if err != nil {
		return err
	}

	for _, stmt := range plan.Statements(db.dialect) {
		db.log.Debug("executing reconciliation statement", "model", m.Name, "sql", stmt)
		if _, err := db.source.Exec(ctx, stmt); err != nil {
			return dbErr("register", fmt.Errorf("reconciling table %s: %w", m.TableName, err))
		}
	}

	m.MarkReady()
	db.log.Info("model registered", "model", m.Name, "table", m.TableName, "created", plan.Create != "", "altered", len(plan.Alters))
	return nil
}

// columnSpecs derives the engine column specs for every field, in
// declaration order. Foreign keys resolve against the registry.
func (db *DB) columnSpecs(m *schema.Model) ([]migration.NamedSpec, error) {
	cols := make([]migration.NamedSpec, 0, len(m.Fields))
	for _, nf := range m.Fields {
		spec, err := db.dialect.MapField(nf.Name, nf.Field, db.registry)
		if err != nil {
			return nil, err
		}
		cols = append(cols, migration.NamedSpec{Name: nf.Name, Spec: spec})
	}
	return cols, nil
}

// ready gates every query operation on the model's registration latch.
func (db *DB) ready(m *schema.Model) error {
	if m.State() != schema.StateReady {
		return ErrModelNotReady
	}
	return nil
}
