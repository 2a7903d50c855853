// pkg/filter/filter.go

// Package filter models WHERE clauses as a recursive boolean expression
// tree: comparison leaves combined by AND/OR group nodes. A tree compiles
// to a fully parenthesized SQL predicate with every identifier and literal
// passed through the dialect's escaping.
package filter

// Op is a comparison operator on a leaf node. Anything outside this
// enumeration is rejected before compilation.
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "<>"
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpLike    Op = "LIKE"
	OpIn      Op = "IN"
	OpBetween Op = "BETWEEN"
)

// Valid reports whether the operator belongs to the fixed enumeration.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpLike, OpIn, OpBetween:
		return true
	}
	return false
}

// Junction combines the children of a group node.
type Junction string

const (
	JunctionAnd Junction = "AND"
	JunctionOr  Junction = "OR"
)

// Expr is a node in a filter tree: either a Cond leaf or a Group.
type Expr interface {
	isExpr()
}

// Cond is a leaf comparison. A nil Value with OpEq or OpNe renders as
// IS NULL / IS NOT NULL; SQL equality does not apply to null.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Group combines child expressions with a single junction. Nesting groups
// expresses arbitrary precedence; the compiler parenthesizes every group.
type Group struct {
	Junction Junction
	Exprs    []Expr
}

func (Cond) isExpr()  {}
func (Group) isExpr() {}

// --- Constructors ---

func Eq(field string, v any) Cond      { return Cond{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Cond      { return Cond{Field: field, Op: OpNe, Value: v} }
func Lt(field string, v any) Cond      { return Cond{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v any) Cond     { return Cond{Field: field, Op: OpLte, Value: v} }
func Gt(field string, v any) Cond      { return Cond{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v any) Cond     { return Cond{Field: field, Op: OpGte, Value: v} }
func Like(field string, v string) Cond { return Cond{Field: field, Op: OpLike, Value: v} }

// In matches any of the given values.
func In(field string, vs ...any) Cond { return Cond{Field: field, Op: OpIn, Value: vs} }

// Between matches the inclusive range [lo, hi].
func Between(field string, lo, hi any) Cond {
	return Cond{Field: field, Op: OpBetween, Value: []any{lo, hi}}
}

func And(exprs ...Expr) Group { return Group{Junction: JunctionAnd, Exprs: exprs} }
func Or(exprs ...Expr) Group  { return Group{Junction: JunctionOr, Exprs: exprs} }

// Fields returns every field name referenced by leaves of the tree, in
// depth-first order. The caller's validation layer checks them against the
// owning model before compiling.
func Fields(e Expr) []string {
	var out []string
	walk(e, func(c Cond) { out = append(out, c.Field) })
	return out
}

// Leaves visits every leaf of the tree in depth-first order.
func Leaves(e Expr, visit func(Cond)) {
	walk(e, visit)
}

func walk(e Expr, visit func(Cond)) {
	switch n := e.(type) {
	case Cond:
		visit(n)
	case *Cond:
		visit(*n)
	case Group:
		for _, child := range n.Exprs {
			walk(child, visit)
		}
	case *Group:
		for _, child := range n.Exprs {
			walk(child, visit)
		}
	}
}
