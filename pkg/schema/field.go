// pkg/schema/field.go
package schema

// FieldType is the logical type of a declared field. The dialect layer maps
// it to a concrete engine column type.
type FieldType int

const (
	Int FieldType = iota // signed integer
	Uint                 // unsigned integer
	Decimal              // fixed-point decimal
	String               // character data
	Bool
	Timestamp
)

// String returns the lowercase name of the type, used in error messages.
func (t FieldType) String() string {
	switch t {
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Timestamp:
		return "timestamp"
	}
	return "unknown"
}

// Reference declares a foreign key. The target model is named, not linked:
// resolution of the registered table name happens at mapping time through
// the Registry, so two models can reference each other without cyclic
// ownership.
type Reference struct {
	Model    string // registered model name
	Field    string // field name on the target model
	OnDelete string // optional referential action (e.g. "CASCADE")
	OnUpdate string // optional referential action
}

// Field describes a single column of a model.
//
// MaxSize is mandatory for every type except Bool and Timestamp. For String
// it is the character length, for Int/Uint the largest representable value,
// and for Decimal a value whose integer part encodes the digit count and
// whose fractional part encodes the scale (e.g. 99999.99 -> decimal(7,2)).
type Field struct {
	Type          FieldType
	MaxSize       *float64
	MinSize       *float64
	Nullable      bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	Default       any  // SQL default literal; only meaningful when HasDefault is set
	HasDefault    bool // distinguishes "no default" from "DEFAULT NULL"
	Reference     *Reference
}

// Size is a convenience for building size pointers in field literals.
func Size(v float64) *float64 { return &v }

// needsSize reports whether the type requires an explicit MaxSize.
func (f *Field) needsSize() bool {
	return f.Type != Bool && f.Type != Timestamp
}
