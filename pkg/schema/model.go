// pkg/schema/model.go
package schema

import (
	"sync/atomic"

	"github.com/iancoleman/strcase"
)

// --- Naming Strategy ---

// NamingStrategy converts model names to database table names.
type NamingStrategy interface {
	TableName(modelName string) string
}

// DefaultNamingStrategy produces snake_case plural table names
// ("OrderItem" -> "order_items").
type DefaultNamingStrategy struct{}

var defaultNamingStrategy NamingStrategy = DefaultNamingStrategy{}

func (DefaultNamingStrategy) TableName(modelName string) string {
	return strcase.ToSnake(modelName) + "s"
}

// --- Model state ---

// State tracks a model's registration lifecycle. The transition from
// StateDefined to StateReady happens exactly once, when the model is bound
// to a live connection and its table has been reconciled. Query operations
// fail before the transition; nothing demotes a ready model.
type State int32

const (
	StateDefined State = iota
	StateReady
)

// --- Model ---

// NamedField pairs a field name with its descriptor. A model's field list
// keeps declaration order; column DDL is emitted in the same order.
type NamedField struct {
	Name  string
	Field *Field
}

// Model is a named, typed schema declaration.
type Model struct {
	Name         string
	TableName    string
	Fields       []NamedField
	FieldsByName map[string]*Field

	state atomic.Int32
}

// NewModel validates the field declarations and returns a model in
// StateDefined. Structural foreign-key checks that need the target model
// (type and size compatibility) run when the model joins a Registry; the
// checks that need no target run here.
func NewModel(name string, fields []NamedField, ns NamingStrategy) (*Model, error) {
	if name == "" {
		return nil, schemaErrf(name, "", "model name cannot be empty")
	}
	if len(fields) == 0 {
		return nil, schemaErrf(name, "", "model declares no fields")
	}
	if ns == nil {
		ns = defaultNamingStrategy
	}

	m := &Model{
		Name:         name,
		TableName:    ns.TableName(name),
		Fields:       fields,
		FieldsByName: make(map[string]*Field, len(fields)),
	}

	for _, nf := range fields {
		if nf.Name == "" || nf.Field == nil {
			return nil, schemaErrf(name, nf.Name, "field declaration is incomplete")
		}
		if _, dup := m.FieldsByName[nf.Name]; dup {
			return nil, schemaErrf(name, nf.Name, "duplicate field name")
		}
		if nf.Field.needsSize() && nf.Field.MaxSize == nil {
			return nil, Validationf(nf.Name, "type %s requires maxSize", nf.Field.Type)
		}
		if ref := nf.Field.Reference; ref != nil {
			if ref.Model == name {
				return nil, schemaErrf(name, nf.Name, "foreign key cannot reference its own model")
			}
			if ref.Model == "" || ref.Field == "" {
				return nil, schemaErrf(name, nf.Name, "foreign key must name a target model and field")
			}
		}
		m.FieldsByName[nf.Name] = nf.Field
	}
	return m, nil
}

// GetField retrieves a field descriptor by name.
func (m *Model) GetField(name string) (*Field, bool) {
	f, ok := m.FieldsByName[name]
	return f, ok
}

// Required returns the names of fields that must be supplied on insert:
// neither nullable, auto-increment, nor defaulted. Order follows the
// declaration order.
func (m *Model) Required() []string {
	var out []string
	for _, nf := range m.Fields {
		f := nf.Field
		if !f.Nullable && !f.AutoIncrement && !f.HasDefault {
			out = append(out, nf.Name)
		}
	}
	return out
}

// PrimaryKeys returns the names of primary-key fields in declaration order.
func (m *Model) PrimaryKeys() []string {
	var out []string
	for _, nf := range m.Fields {
		if nf.Field.PrimaryKey {
			out = append(out, nf.Name)
		}
	}
	return out
}

// State returns the model's current lifecycle state.
func (m *Model) State() State {
	return State(m.state.Load())
}

// MarkReady flips the readiness latch. The flip is one-way; calling it on an
// already-ready model reports false.
func (m *Model) MarkReady() bool {
	return m.state.CompareAndSwap(int32(StateDefined), int32(StateReady))
}
