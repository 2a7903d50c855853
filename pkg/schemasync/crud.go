// pkg/schemasync/crud.go
package schemasync

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmenegatti/schemasync/pkg/filter"
	"github.com/chmenegatti/schemasync/pkg/schema"
)

// Record is one stored row, keyed by field name.
type Record map[string]any

// OrderBy names a sort field for Find.
type OrderBy struct {
	Field string
	Desc  bool
}

// FindOptions narrows a Find: an optional filter tree, sort order, and row
// limit. A set limit must be positive.
type FindOptions struct {
	Filter filter.Expr
	Order  []OrderBy
	Limit  *int
}

// CountSpec describes one aggregate column for Count. The zero spec counts
// all rows as "count".
type CountSpec struct {
	Column   string // "*" or a field name
	Distinct bool
	Alias    string
}

// Insert validates the payload, writes the row, and returns it as stored.
// MySQL has no INSERT ... RETURNING, so the row is read back after the
// write: by LastInsertId when the model has a single auto-increment primary
// key, otherwise by an equality filter over the written values. A row that
// cannot be found afterwards yields a nil record, not an error.
func (db *DB) Insert(ctx context.Context, m *schema.Model, values map[string]any) (Record, error) {
	if err := db.ready(m); err != nil {
		return nil, err
	}
	if err := db.validateWrite(m, values, true); err != nil {
		return nil, err
	}

	names, literals, err := db.writeColumns(m, values)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		db.dialect.QuoteIdent(m.TableName),
		strings.Join(names, ", "),
		strings.Join(literals, ", "))

	db.log.Debug("executing statement", "model", m.Name, "sql", stmt)
	res, err := db.source.Exec(ctx, stmt)
	if err != nil {
		return nil, dbErr("insert", err)
	}

	return db.readBack(ctx, m, values, res.LastInsertId)
}

// Upsert behaves like Insert but resolves a duplicate key by updating the
// written non-key columns instead of failing.
func (db *DB) Upsert(ctx context.Context, m *schema.Model, values map[string]any) (Record, error) {
	if err := db.ready(m); err != nil {
		return nil, err
	}
	if err := db.validateWrite(m, values, true); err != nil {
		return nil, err
	}

	names, literals, err := db.writeColumns(m, values)
	if err != nil {
		return nil, err
	}

	var updates []string
	for _, nf := range m.Fields {
		if _, written := values[nf.Name]; !written || nf.Field.PrimaryKey {
			continue
		}
		ident := db.dialect.QuoteIdent(nf.Name)
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", ident, ident))
	}
	if len(updates) == 0 {
		// Every written column is part of the key; make the conflict a no-op.
		ident := names[0]
		updates = append(updates, fmt.Sprintf("%s = %s", ident, ident))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		db.dialect.QuoteIdent(m.TableName),
		strings.Join(names, ", "),
		strings.Join(literals, ", "),
		strings.Join(updates, ", "))

	db.log.Debug("executing statement", "model", m.Name, "sql", stmt)
	res, err := db.source.Exec(ctx, stmt)
	if err != nil {
		return nil, dbErr("upsert", err)
	}

	return db.readBack(ctx, m, values, res.LastInsertId)
}

// Find returns the records matching the options, in the requested order.
func (db *DB) Find(ctx context.Context, m *schema.Model, opts FindOptions) ([]Record, error) {
	if err := db.ready(m); err != nil {
		return nil, err
	}
	if err := validateFilter(m, opts.Filter); err != nil {
		return nil, err
	}
	for _, ord := range opts.Order {
		if _, ok := m.GetField(ord.Field); !ok {
			return nil, schema.Validationf(ord.Field, "unknown order field on model %s", m.Name)
		}
	}
	if opts.Limit != nil && *opts.Limit <= 0 {
		return nil, schema.Validationf("", "invalid limit %d", *opts.Limit)
	}

	return db.findWith(ctx, m, opts)
}

// Update sets the given values on every row matching the filter and returns
// the number of affected rows. A nil filter updates all rows.
func (db *DB) Update(ctx context.Context, m *schema.Model, values map[string]any, flt filter.Expr) (int64, error) {
	if err := db.ready(m); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, schema.Validationf("", "update requires at least one value")
	}
	if err := db.validateWrite(m, values, false); err != nil {
		return 0, err
	}
	if err := validateFilter(m, flt); err != nil {
		return 0, err
	}

	var assignments []string
	for _, nf := range m.Fields {
		v, written := values[nf.Name]
		if !written {
			continue
		}
		lit, err := db.dialect.QuoteLiteral(v)
		if err != nil {
			return 0, schema.Validationf(nf.Name, "%v", err)
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", db.dialect.QuoteIdent(nf.Name), lit))
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s", db.dialect.QuoteIdent(m.TableName), strings.Join(assignments, ", "))
	if flt != nil {
		where, err := filter.Compile(flt, db.dialect)
		if err != nil {
			return 0, err
		}
		stmt += " WHERE " + where
	}

	db.log.Debug("executing statement", "model", m.Name, "sql", stmt)
	res, err := db.source.Exec(ctx, stmt)
	if err != nil {
		return 0, dbErr("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, dbErr("update", err)
	}
	return affected, nil
}

// Delete removes every row matching the filter and returns the number of
// affected rows. A nil filter deletes all rows.
func (db *DB) Delete(ctx context.Context, m *schema.Model, flt filter.Expr) (int64, error) {
	if err := db.ready(m); err != nil {
		return 0, err
	}
	if err := validateFilter(m, flt); err != nil {
		return 0, err
	}

	stmt := "DELETE FROM " + db.dialect.QuoteIdent(m.TableName)
	if flt != nil {
		where, err := filter.Compile(flt, db.dialect)
		if err != nil {
			return 0, err
		}
		stmt += " WHERE " + where
	}

	db.log.Debug("executing statement", "model", m.Name, "sql", stmt)
	res, err := db.source.Exec(ctx, stmt)
	if err != nil {
		return 0, dbErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, dbErr("delete", err)
	}
	return affected, nil
}

// Count computes the requested aggregates over the rows matching the
// filter. With no specs it counts all rows under the alias "count".
func (db *DB) Count(ctx context.Context, m *schema.Model, flt filter.Expr, specs []CountSpec) (map[string]int64, error) {
	if err := db.ready(m); err != nil {
		return nil, err
	}
	if err := validateFilter(m, flt); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		specs = []CountSpec{{Column: "*"}}
	}

	exprs := make([]string, 0, len(specs))
	aliases := make([]string, 0, len(specs))
	for _, spec := range specs {
		col := spec.Column
		if col == "" {
			col = "*"
		}
		target := "*"
		if col != "*" {
			if _, ok := m.GetField(col); !ok {
				return nil, schema.Validationf(col, "unknown count field on model %s", m.Name)
			}
			target = db.dialect.QuoteIdent(col)
		}
		if spec.Distinct {
			if target == "*" {
				return nil, schema.Validationf("", "DISTINCT count requires a field")
			}
			target = "DISTINCT " + target
		}
		alias := spec.Alias
		if alias == "" {
			alias = "count"
		}
		exprs = append(exprs, fmt.Sprintf("COUNT(%s) AS %s", target, db.dialect.QuoteIdent(alias)))
		aliases = append(aliases, alias)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), db.dialect.QuoteIdent(m.TableName))
	if flt != nil {
		where, err := filter.Compile(flt, db.dialect)
		if err != nil {
			return nil, err
		}
		query += " WHERE " + where
	}

	db.log.Debug("executing query", "model", m.Name, "sql", query)
	dest := make([]any, len(aliases))
	counts := make([]int64, len(aliases))
	for i := range counts {
		dest[i] = &counts[i]
	}
	if err := db.source.QueryRow(ctx, query).Scan(dest...); err != nil {
		return nil, dbErr("count", err)
	}

	out := make(map[string]int64, len(aliases))
	for i, alias := range aliases {
		out[alias] = counts[i]
	}
	return out, nil
}

// --- Helpers ---

// validateWrite checks a write payload: every key names a model field,
// every value passes the field's validation, and (for inserts) every
// required field is present.
func (db *DB) validateWrite(m *schema.Model, values map[string]any, requireAll bool) error {
	for name, v := range values {
		f, ok := m.GetField(name)
		if !ok {
			return schema.Validationf(name, "unknown field on model %s", m.Name)
		}
		if err := validateValue(name, f, v); err != nil {
			return err
		}
	}
	if requireAll {
		for _, name := range m.Required() {
			if _, ok := values[name]; !ok {
				return schema.Validationf(name, "required field is missing")
			}
		}
	}
	return nil
}

// writeColumns renders the written columns and their literals in field
// declaration order.
func (db *DB) writeColumns(m *schema.Model, values map[string]any) (names, literals []string, err error) {
	for _, nf := range m.Fields {
		v, written := values[nf.Name]
		if !written {
			continue
		}
		lit, err := db.dialect.QuoteLiteral(v)
		if err != nil {
			return nil, nil, schema.Validationf(nf.Name, "%v", err)
		}
		names = append(names, db.dialect.QuoteIdent(nf.Name))
		literals = append(literals, lit)
	}
	if len(names) == 0 {
		return nil, nil, schema.Validationf("", "insert requires at least one value")
	}
	return names, literals, nil
}

// readBack fetches the row a write just produced. With a single
// auto-increment primary key the LastInsertId pins it down; otherwise the
// written values themselves identify it.
func (db *DB) readBack(ctx context.Context, m *schema.Model, values map[string]any, lastID func() (int64, error)) (Record, error) {
	var flt filter.Expr

	pks := m.PrimaryKeys()
	if len(pks) == 1 {
		if f, _ := m.GetField(pks[0]); f.AutoIncrement {
			if id, err := lastID(); err == nil && id > 0 {
				flt = filter.Eq(pks[0], id)
			}
		}
	}
	if flt == nil {
		var conds []filter.Expr
		for _, nf := range m.Fields {
			if v, written := values[nf.Name]; written {
				conds = append(conds, filter.Eq(nf.Name, v))
			}
		}
		flt = filter.And(conds...)
	}

	one := 1
	rows, err := db.findWith(ctx, m, FindOptions{Filter: flt, Limit: &one})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// findWith is Find without the option validation, for internal callers that
// build their own filters from already-validated values.
func (db *DB) findWith(ctx context.Context, m *schema.Model, opts FindOptions) ([]Record, error) {
	query, err := db.selectSQL(m, opts)
	if err != nil {
		return nil, err
	}

	db.log.Debug("executing query", "model", m.Name, "sql", query)
	rows, err := db.source.Query(ctx, query)
	if err != nil {
		return nil, dbErr("find", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows, m)
		if err != nil {
			return nil, dbErr("find", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("find", err)
	}
	return out, nil
}

// selectSQL renders the SELECT for the model's full column list.
func (db *DB) selectSQL(m *schema.Model, opts FindOptions) (string, error) {
	cols := make([]string, len(m.Fields))
	for i, nf := range m.Fields {
		cols[i] = db.dialect.QuoteIdent(nf.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), db.dialect.QuoteIdent(m.TableName))

	if opts.Filter != nil {
		where, err := filter.Compile(opts.Filter, db.dialect)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE " + where)
	}
	if len(opts.Order) > 0 {
		parts := make([]string, len(opts.Order))
		for i, ord := range opts.Order {
			dir := "ASC"
			if ord.Desc {
				dir = "DESC"
			}
			parts[i] = db.dialect.QuoteIdent(ord.Field) + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if opts.Limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *opts.Limit)
	}
	return b.String(), nil
}

// scanRecord scans the current row into a record keyed by field name. The
// driver hands strings back as []byte; those normalize to string.
func scanRecord(rows interface{ Scan(...any) error }, m *schema.Model) (Record, error) {
	vals := make([]any, len(m.Fields))
	dest := make([]any, len(m.Fields))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	rec := make(Record, len(m.Fields))
	for i, nf := range m.Fields {
		v := vals[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[nf.Name] = v
	}
	return rec, nil
}
