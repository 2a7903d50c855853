// pkg/dialects/common/types.go
package common

import (
	"fmt"
	"strings"
)

// ResolvedReference is a foreign key with its target model resolved to the
// registered table name. Resolution happens at mapping time, never earlier.
type ResolvedReference struct {
	Table    string
	Column   string
	OnDelete string
	OnUpdate string
}

// ColumnSpec is the engine-level derivation of a single field descriptor:
// concrete type name, storage size, attributes and constraints. Specs are
// derived fresh on every comparison and never persisted.
type ColumnSpec struct {
	TypeName  string // e.g. "smallint", "varchar", "decimal", "timestamp"
	Size      int    // display width or character length; decimals use Precision/Scale
	Precision int
	Scale     int
	Unsigned  bool

	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Default       any
	HasDefault    bool
	Reference     *ResolvedReference
}

// TypeClause renders the bare column type, e.g. "smallint(5) unsigned",
// "varchar(50)", "decimal(7,2)". This is the string compared (case
// insensitively) against the live column type during reconciliation.
func (c *ColumnSpec) TypeClause() string {
	var b strings.Builder
	switch {
	case c.TypeName == "decimal":
		fmt.Fprintf(&b, "decimal(%d,%d)", c.Precision, c.Scale)
	case c.TypeName == "timestamp":
		// timestamp carries no display width
		b.WriteString(c.TypeName)
	default:
		if c.Size > 0 {
			fmt.Fprintf(&b, "%s(%d)", c.TypeName, c.Size)
		} else {
			b.WriteString(c.TypeName)
		}
	}
	if c.Unsigned {
		b.WriteString(" unsigned")
	}
	return b.String()
}

// DefinitionClause renders the full column definition used in CREATE TABLE
// and ALTER TABLE ... ADD/MODIFY COLUMN: type, nullability, auto-increment
// and default. The default literal passes through the dialect's escaping.
func (c *ColumnSpec) DefinitionClause(esc Escaper) (string, error) {
	var b strings.Builder
	b.WriteString(c.TypeClause())
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.AutoIncrement {
		b.WriteString(" auto_increment")
	}
	if c.HasDefault {
		lit, err := esc.QuoteLiteral(c.Default)
		if err != nil {
			return "", err
		}
		b.WriteString(" DEFAULT " + lit)
	}
	return b.String(), nil
}

// ColumnDescription is one introspected live column.
type ColumnDescription struct {
	Name     string
	Type     string  // engine-rendered type string, e.g. "int(10) unsigned"
	Nullable bool
	Extra    string  // engine extras, e.g. "auto_increment"
	Default  *string // nil when the column has no default
}

// TableDescription is the introspected structure of a live table. It is
// fetched once per reconciliation pass and never cached beyond it.
type TableDescription struct {
	Name        string
	Columns     []ColumnDescription
	PrimaryKey  []string // ordered primary-key column names
	UniqueKeys  []string // unique index names, PRIMARY excluded
	ForeignKeys []string // foreign-key constraint names
}

// Column returns the live column with the given name.
func (t *TableDescription) Column(name string) (*ColumnDescription, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// HasUniqueKey reports whether the table carries a unique index with the
// given name.
func (t *TableDescription) HasUniqueKey(name string) bool {
	for _, k := range t.UniqueKeys {
		if k == name {
			return true
		}
	}
	return false
}

// HasForeignKey reports whether the table carries a foreign-key constraint
// with the given name.
func (t *TableDescription) HasForeignKey(name string) bool {
	for _, k := range t.ForeignKeys {
		if k == name {
			return true
		}
	}
	return false
}
