// pkg/schemasync/validate.go
package schemasync

import (
	"math"
	"time"

	"github.com/chmenegatti/schemasync/pkg/filter"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// validateValue checks a single value against its field descriptor. The same
// rules apply to write payloads and to filter leaf values; every operation
// runs them before any SQL is built.
func validateValue(name string, f *schema.Field, v any) error {
	if v == nil {
		if !f.Nullable {
			return schema.Validationf(name, "null value for non-nullable field")
		}
		return nil
	}

	switch f.Type {
	case schema.Int, schema.Uint:
		n, ok := asInteger(v)
		if !ok {
			return schema.Validationf(name, "value %v is not an integer", v)
		}
		if f.Type == schema.Uint && n < 0 {
			return schema.Validationf(name, "value %d is negative for unsigned field", n)
		}
		if float64(n) > *f.MaxSize {
			return schema.Validationf(name, "value %d exceeds maximum %v", n, *f.MaxSize)
		}
		if f.MinSize != nil && float64(n) < *f.MinSize {
			return schema.Validationf(name, "value %d is below minimum %v", n, *f.MinSize)
		}
	case schema.Decimal:
		n, ok := asFloat(v)
		if !ok {
			return schema.Validationf(name, "value %v is not numeric", v)
		}
		if math.Abs(n) > *f.MaxSize {
			return schema.Validationf(name, "value %v exceeds maximum %v", n, *f.MaxSize)
		}
		if f.MinSize != nil && n < *f.MinSize {
			return schema.Validationf(name, "value %v is below minimum %v", n, *f.MinSize)
		}
	case schema.String:
		s, ok := v.(string)
		if !ok {
			return schema.Validationf(name, "value of type %T is not a string", v)
		}
		if float64(len(s)) > *f.MaxSize {
			return schema.Validationf(name, "string of length %d exceeds maximum %v", len(s), *f.MaxSize)
		}
		if f.MinSize != nil && float64(len(s)) < *f.MinSize {
			return schema.Validationf(name, "string of length %d is below minimum %v", len(s), *f.MinSize)
		}
	case schema.Bool:
		if _, ok := v.(bool); !ok {
			return schema.Validationf(name, "value of type %T is not a boolean", v)
		}
	case schema.Timestamp:
		if _, ok := v.(time.Time); !ok {
			return schema.Validationf(name, "value of type %T is not a timestamp", v)
		}
	}
	return nil
}

// validateFilter walks the filter tree against the model: every leaf must
// name a known field, carry an operator from the enumeration, and hold a
// value the field accepts. Nil values pass only for = and <>, where they
// compile to IS NULL / IS NOT NULL.
func validateFilter(m *schema.Model, e filter.Expr) error {
	if e == nil {
		return nil
	}
	var firstErr error
	filter.Leaves(e, func(c filter.Cond) {
		if firstErr != nil {
			return
		}
		firstErr = validateLeaf(m, c)
	})
	return firstErr
}

func validateLeaf(m *schema.Model, c filter.Cond) error {
	f, ok := m.GetField(c.Field)
	if !ok {
		return schema.Validationf(c.Field, "unknown field on model %s", m.Name)
	}
	if !c.Op.Valid() {
		return schema.Validationf(c.Field, "invalid operator %q", string(c.Op))
	}
	if c.Value == nil {
		if c.Op == filter.OpEq || c.Op == filter.OpNe {
			return nil
		}
		return schema.Validationf(c.Field, "null value is only comparable with = or <>")
	}

	switch c.Op {
	case filter.OpIn:
		elems, ok := sliceValues(c.Value)
		if !ok || len(elems) == 0 {
			return schema.Validationf(c.Field, "IN requires a non-empty list of values")
		}
		for _, v := range elems {
			if err := validateValue(c.Field, f, v); err != nil {
				return err
			}
		}
	case filter.OpBetween:
		elems, ok := sliceValues(c.Value)
		if !ok || len(elems) != 2 {
			return schema.Validationf(c.Field, "BETWEEN requires exactly two values")
		}
		for _, v := range elems {
			if err := validateValue(c.Field, f, v); err != nil {
				return err
			}
		}
	default:
		return validateValue(c.Field, f, c.Value)
	}
	return nil
}

// asInteger widens any Go integer type, and a float carrying an integral
// value, to int64.
func asInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		if float32(int64(n)) == n {
			return int64(n), true
		}
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := asInteger(v); ok {
		return float64(i), true
	}
	return 0, false
}

func sliceValues(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}
