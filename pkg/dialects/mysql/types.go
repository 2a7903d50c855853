// pkg/dialects/mysql/types.go
package mysql

import (
	"math"
	"strconv"
	"strings"

	"github.com/chmenegatti/schemasync/pkg/dialects/common"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// Integer storage classes by byte width. Widths 5 through 8 all land on
// bigint; anything wider has no storage class and fails validation.
var integerTiers = map[int]string{
	1: "tinyint",
	2: "smallint",
	3: "mediumint",
	4: "int",
	5: "bigint",
	6: "bigint",
	7: "bigint",
	8: "bigint",
}

// MapField derives the MySQL column spec for a field descriptor. It is pure:
// identical descriptors always yield identical specs. The resolver is only
// consulted when the field declares a foreign key.
func (d *mysqlDialect) MapField(name string, f *schema.Field, resolver common.ReferenceResolver) (*common.ColumnSpec, error) {
	spec := &common.ColumnSpec{
		Nullable:      f.Nullable,
		PrimaryKey:    f.PrimaryKey,
		AutoIncrement: f.AutoIncrement,
		Unique:        f.Unique,
		Default:       f.Default,
		HasDefault:    f.HasDefault,
	}

	switch f.Type {
	case schema.Bool:
		// Booleans are a fixed one-bit column and never participate in
		// unique keys.
		spec.TypeName = "tinyint"
		spec.Size = 1
		spec.Unique = false

	case schema.Timestamp:
		spec.TypeName = "timestamp"
		spec.Size = 1
		if f.MaxSize != nil {
			spec.Size = int(*f.MaxSize)
		}

	case schema.String:
		if f.MaxSize == nil {
			return nil, schema.Validationf(name, "string field requires maxSize")
		}
		spec.TypeName = "varchar"
		spec.Size = int(*f.MaxSize)

	case schema.Decimal:
		if f.MaxSize == nil {
			return nil, schema.Validationf(name, "decimal field requires maxSize")
		}
		precision, scale := decimalBounds(*f.MaxSize)
		spec.TypeName = "decimal"
		spec.Precision = precision
		spec.Scale = scale

	case schema.Int, schema.Uint:
		if f.MaxSize == nil {
			return nil, schema.Validationf(name, "integer field requires maxSize")
		}
		max := *f.MaxSize
		if max < 1 {
			return nil, schema.Validationf(name, "integer maxSize must be at least 1, got %v", max)
		}
		spec.Size = int(math.Ceil(math.Log10(max + 1)))
		tier, ok := integerTiers[integerBytes(max, f.Type == schema.Int)]
		if !ok {
			return nil, schema.Validationf(name, "maxSize %v exceeds the largest integer storage class", max)
		}
		spec.TypeName = tier
		spec.Unsigned = f.Type == schema.Uint

	default:
		return nil, schema.Validationf(name, "unsupported field type %v", f.Type)
	}

	if f.Reference != nil {
		if resolver == nil {
			return nil, schema.Validationf(name, "foreign key declared but no reference resolver available")
		}
		table, err := resolver.TableOf(f.Reference.Model)
		if err != nil {
			return nil, err
		}
		spec.Reference = &common.ResolvedReference{
			Table:    table,
			Column:   f.Reference.Field,
			OnDelete: f.Reference.OnDelete,
			OnUpdate: f.Reference.OnUpdate,
		}
	}

	return spec, nil
}

// integerBytes computes the storage byte width for the given maximum value.
// The +1 keeps the boundary values on the correct side: a signed 128 needs
// two bytes, an unsigned 256 needs two bytes.
func integerBytes(max float64, signed bool) int {
	span := max + 1
	if signed {
		span = 2*max + 1
	}
	return int(math.Ceil(math.Log2(span) / 8))
}

// decimalBounds extracts precision and scale from a decimal maxSize: the
// integer part bounds the digit count, the fractional digits give the
// scale. 99999.99 -> (7, 2); 5000 -> (4, 0).
func decimalBounds(max float64) (precision, scale int) {
	text := strconv.FormatFloat(max, 'f', -1, 64)
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		scale = len(text) - dot - 1
	}
	precision = int(math.Ceil(math.Log10(math.Floor(max)+1))) + scale
	return precision, scale
}
