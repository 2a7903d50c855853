// pkg/schema/registry.go
package schema

import "sync"

// Registry holds registered models by name and answers the table-name
// lookups the dialect layer needs when mapping foreign keys. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Add registers a model. It fails when the name is taken, and runs the
// structural foreign-key checks in both directions: references this model
// declares against targets already registered, and references earlier
// models declared against this one. Registration order between two related
// models therefore does not matter; an incompatible pair is rejected as
// soon as both sides are known.
func (r *Registry) Add(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.models[m.Name]; dup {
		return schemaErrf(m.Name, "", "model already registered")
	}

	for _, nf := range m.Fields {
		ref := nf.Field.Reference
		if ref == nil {
			continue
		}
		if target, ok := r.models[ref.Model]; ok {
			if err := checkReference(m, nf, target); err != nil {
				return err
			}
		}
	}
	for _, other := range r.models {
		for _, nf := range other.Fields {
			ref := nf.Field.Reference
			if ref == nil || ref.Model != m.Name {
				continue
			}
			if err := checkReference(other, nf, m); err != nil {
				return err
			}
		}
	}

	r.models[m.Name] = m
	return nil
}

// Lookup returns the registered model with the given name.
func (r *Registry) Lookup(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// TableOf resolves a model name to its registered table name. Used as the
// lazy reference resolver during type mapping.
func (r *Registry) TableOf(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	if !ok {
		return "", schemaErrf(name, "", "referenced model is not registered")
	}
	return m.TableName, nil
}

// checkReference enforces the structural compatibility rules between a
// declaring field and the field it references: same logical type, and the
// same presence of maxSize and minSize.
func checkReference(owner *Model, nf NamedField, target *Model) error {
	ref := nf.Field.Reference
	tf, ok := target.FieldsByName[ref.Field]
	if !ok {
		return schemaErrf(owner.Name, nf.Name,
			"foreign key references unknown field %s.%s", ref.Model, ref.Field)
	}
	if tf.Type != nf.Field.Type {
		return schemaErrf(owner.Name, nf.Name,
			"foreign key type %s does not match referenced field %s.%s (%s)",
			nf.Field.Type, ref.Model, ref.Field, tf.Type)
	}
	if (tf.MaxSize == nil) != (nf.Field.MaxSize == nil) {
		return schemaErrf(owner.Name, nf.Name,
			"foreign key maxSize declaration does not match referenced field %s.%s", ref.Model, ref.Field)
	}
	if tf.MaxSize != nil && nf.Field.MaxSize != nil && *tf.MaxSize != *nf.Field.MaxSize {
		return schemaErrf(owner.Name, nf.Name,
			"foreign key maxSize %v does not match referenced field %s.%s (%v)",
			*nf.Field.MaxSize, ref.Model, ref.Field, *tf.MaxSize)
	}
	if (tf.MinSize == nil) != (nf.Field.MinSize == nil) {
		return schemaErrf(owner.Name, nf.Name,
			"foreign key minSize declaration does not match referenced field %s.%s", ref.Model, ref.Field)
	}
	return nil
}
