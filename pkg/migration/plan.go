// pkg/migration/plan.go

// Package migration computes the structural changes that bring a live table
// in line with a declared model: the diff between freshly derived column
// specs and an introspected table description, rendered as one CREATE TABLE
// or one combined ALTER TABLE statement.
package migration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chmenegatti/schemasync/pkg/dialects/common"
)

// NamedSpec pairs a column name with its derived spec, keeping the model's
// declaration order.
type NamedSpec struct {
	Name string
	Spec *common.ColumnSpec
}

// ChangeSet is the outcome of one reconciliation pass. Either Create is set
// (the table was absent) or Alters holds the ALTER clauses in reconciliation
// order; both empty means the table already matches the declaration.
type ChangeSet struct {
	Table  string
	Create string
	Alters []string
}

// Empty reports whether the pass produced no structural operations.
func (c *ChangeSet) Empty() bool {
	return c.Create == "" && len(c.Alters) == 0
}

// Statements renders the SQL to execute: at most one statement, since all
// ALTER clauses of a pass combine into a single ALTER TABLE.
func (c *ChangeSet) Statements(esc common.Escaper) []string {
	switch {
	case c.Create != "":
		return []string{c.Create}
	case len(c.Alters) > 0:
		return []string{fmt.Sprintf("ALTER TABLE %s %s", esc.QuoteIdent(c.Table), strings.Join(c.Alters, ", "))}
	}
	return nil
}

// Plan diffs the declared column specs against the live table description.
// A nil live description means the table is absent and short-circuits into a
// wholesale CREATE TABLE. Plan is pure over its inputs and idempotent:
// planning against the table its own output produces yields an empty set.
func Plan(table string, cols []NamedSpec, live *common.TableDescription, esc common.Escaper) (*ChangeSet, error) {
	cs := &ChangeSet{Table: table}

	if live == nil {
		create, err := renderCreate(table, cols, esc)
		if err != nil {
			return nil, err
		}
		cs.Create = create
		return cs, nil
	}

	// 1. Column add / drop / change. Later steps assume the column set is
	// consistent, so this runs first.
	declared := make(map[string]*common.ColumnSpec, len(cols))
	for _, col := range cols {
		declared[col.Name] = col.Spec
	}
	for _, col := range cols {
		liveCol, ok := live.Column(col.Name)
		if !ok {
			def, err := col.Spec.DefinitionClause(esc)
			if err != nil {
				return nil, err
			}
			cs.Alters = append(cs.Alters, fmt.Sprintf("ADD COLUMN %s %s", esc.QuoteIdent(col.Name), def))
			continue
		}
		changed, err := columnChanged(col.Spec, liveCol, esc)
		if err != nil {
			return nil, err
		}
		if changed {
			def, err := col.Spec.DefinitionClause(esc)
			if err != nil {
				return nil, err
			}
			cs.Alters = append(cs.Alters, fmt.Sprintf("MODIFY COLUMN %s %s", esc.QuoteIdent(col.Name), def))
		}
	}
	for _, liveCol := range live.Columns {
		if _, ok := declared[liveCol.Name]; !ok {
			cs.Alters = append(cs.Alters, fmt.Sprintf("DROP COLUMN %s", esc.QuoteIdent(liveCol.Name)))
		}
	}

	// 2. Primary key: compared as an ordered whole; no partial edits.
	declaredPK := primaryKeyColumns(cols)
	if strings.Join(declaredPK, ",") != strings.Join(live.PrimaryKey, ",") {
		var clauses []string
		if len(live.PrimaryKey) > 0 {
			clauses = append(clauses, "DROP PRIMARY KEY")
		}
		if len(declaredPK) > 0 {
			quoted := make([]string, len(declaredPK))
			for i, name := range declaredPK {
				quoted[i] = esc.QuoteIdent(name)
			}
			clauses = append(clauses, fmt.Sprintf("ADD PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
		}
		if len(clauses) > 0 {
			cs.Alters = append(cs.Alters, strings.Join(clauses, ", "))
		}
	}

	// 3. Unique indexes, excluding columns the primary key already covers.
	declaredUnique := uniqueKeyColumns(cols)
	for _, name := range live.UniqueKeys {
		if _, keep := declaredUnique[name]; !keep {
			cs.Alters = append(cs.Alters, fmt.Sprintf("DROP INDEX %s", esc.QuoteIdent(name)))
		}
	}
	for _, col := range cols {
		if _, want := declaredUnique[col.Name]; want && !live.HasUniqueKey(col.Name) {
			cs.Alters = append(cs.Alters, fmt.Sprintf("ADD UNIQUE KEY %s (%s)", esc.QuoteIdent(col.Name), esc.QuoteIdent(col.Name)))
		}
	}

	// 4. Foreign keys, identified by their deterministic <column>_fk name.
	// A live constraint matching a declared name only after case folding is
	// a renamed leftover and gets recreated.
	fkAlters, err := diffForeignKeys(cols, live, esc)
	if err != nil {
		return nil, err
	}
	cs.Alters = append(cs.Alters, fkAlters...)

	return cs, nil
}

// ForeignKeyName derives the deterministic constraint name for a column's
// foreign key.
func ForeignKeyName(column string) string {
	return column + "_fk"
}

func renderCreate(table string, cols []NamedSpec, esc common.Escaper) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("migration: cannot create table %s without columns", table)
	}

	var defs []string
	for _, col := range cols {
		def, err := col.Spec.DefinitionClause(esc)
		if err != nil {
			return "", err
		}
		defs = append(defs, fmt.Sprintf("%s %s", esc.QuoteIdent(col.Name), def))
	}

	if pk := primaryKeyColumns(cols); len(pk) > 0 {
		quoted := make([]string, len(pk))
		for i, name := range pk {
			quoted[i] = esc.QuoteIdent(name)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	unique := uniqueKeyColumns(cols)
	for _, col := range cols {
		if _, ok := unique[col.Name]; ok {
			defs = append(defs, fmt.Sprintf("UNIQUE KEY %s (%s)", esc.QuoteIdent(col.Name), esc.QuoteIdent(col.Name)))
		}
	}

	for _, col := range cols {
		if col.Spec.Reference != nil {
			defs = append(defs, foreignKeyClause(col.Name, col.Spec.Reference, esc))
		}
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", esc.QuoteIdent(table), strings.Join(defs, ", ")), nil
}

// primaryKeyColumns returns the declared primary-key columns in declaration
// order.
func primaryKeyColumns(cols []NamedSpec) []string {
	var out []string
	for _, col := range cols {
		if col.Spec.PrimaryKey {
			out = append(out, col.Name)
		}
	}
	return out
}

// uniqueKeyColumns returns the set of columns that need a dedicated unique
// index: declared unique and not already covered by the primary key.
func uniqueKeyColumns(cols []NamedSpec) map[string]struct{} {
	out := make(map[string]struct{})
	for _, col := range cols {
		if col.Spec.Unique && !col.Spec.PrimaryKey {
			out[col.Name] = struct{}{}
		}
	}
	return out
}

// columnChanged reports whether the live column diverges from the derived
// spec in type, nullability, auto-increment or default. The type comparison
// is case-insensitive; the server renders type strings in lowercase but
// that is not guaranteed across versions.
func columnChanged(spec *common.ColumnSpec, live *common.ColumnDescription, esc common.Escaper) (bool, error) {
	if !strings.EqualFold(spec.TypeClause(), live.Type) {
		return true, nil
	}
	if spec.Nullable != live.Nullable {
		return true, nil
	}
	liveAutoInc := strings.Contains(strings.ToLower(live.Extra), "auto_increment")
	if spec.AutoIncrement != liveAutoInc {
		return true, nil
	}
	if spec.HasDefault != (live.Default != nil) {
		return true, nil
	}
	if spec.HasDefault {
		declaredDefault, err := defaultText(spec, esc)
		if err != nil {
			return false, err
		}
		if !defaultsEqual(declaredDefault, *live.Default) {
			return true, nil
		}
	}
	return false, nil
}

// defaultsEqual compares a declared default against the live one. Numeric
// defaults compare by value, since the server pads decimals to the declared
// scale ("0" vs "0.00"); everything else compares case-insensitively.
func defaultsEqual(declared, live string) bool {
	d, derr := strconv.ParseFloat(declared, 64)
	l, lerr := strconv.ParseFloat(live, 64)
	if derr == nil && lerr == nil {
		return d == l
	}
	return strings.EqualFold(declared, live)
}

// defaultText renders the declared default in the unquoted form
// information_schema reports, so the two compare textually.
func defaultText(spec *common.ColumnSpec, esc common.Escaper) (string, error) {
	if !spec.HasDefault {
		return "", nil
	}
	lit, err := esc.QuoteLiteral(spec.Default)
	if err != nil {
		return "", err
	}
	return strings.Trim(lit, "'"), nil
}

func diffForeignKeys(cols []NamedSpec, live *common.TableDescription, esc common.Escaper) ([]string, error) {
	type declaredFK struct {
		column string
		ref    *common.ResolvedReference
	}
	declared := make(map[string]declaredFK)
	var order []string
	for _, col := range cols {
		if col.Spec.Reference != nil {
			name := ForeignKeyName(col.Name)
			declared[name] = declaredFK{column: col.Name, ref: col.Spec.Reference}
			order = append(order, name)
		}
	}

	liveByFold := make(map[string]string, len(live.ForeignKeys))
	for _, name := range live.ForeignKeys {
		liveByFold[strings.ToLower(name)] = name
	}
	declaredByFold := make(map[string]struct{}, len(declared))
	for name := range declared {
		declaredByFold[strings.ToLower(name)] = struct{}{}
	}

	var alters []string

	// Live constraints with no declared counterpart (even case-folded) are
	// removed; case-folded matches are recreated below instead.
	for _, liveName := range live.ForeignKeys {
		if _, ok := declaredByFold[strings.ToLower(liveName)]; ok {
			continue
		}
		alters = append(alters, fmt.Sprintf("DROP FOREIGN KEY %s", esc.QuoteIdent(liveName)))
	}

	for _, name := range order {
		fk := declared[name]
		liveName, present := liveByFold[strings.ToLower(name)]
		switch {
		case !present:
			alters = append(alters, "ADD "+foreignKeyClause(fk.column, fk.ref, esc))
		case liveName != name:
			// Name drift: recreate under the canonical name.
			alters = append(alters,
				fmt.Sprintf("DROP FOREIGN KEY %s", esc.QuoteIdent(liveName)),
				"ADD "+foreignKeyClause(fk.column, fk.ref, esc))
		}
	}

	return alters, nil
}

// foreignKeyClause renders the constraint definition, with the optional
// referential actions verbatim when declared.
func foreignKeyClause(column string, ref *common.ResolvedReference, esc common.Escaper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		esc.QuoteIdent(ForeignKeyName(column)),
		esc.QuoteIdent(column),
		esc.QuoteIdent(ref.Table),
		esc.QuoteIdent(ref.Column))
	if ref.OnDelete != "" {
		b.WriteString(" ON DELETE " + ref.OnDelete)
	}
	if ref.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + ref.OnUpdate)
	}
	return b.String()
}
