// pkg/filter/compile.go
package filter

import (
	"fmt"
	"strings"
)

// Escaper is the escaping capability the compiler delegates to. Dialects
// implement it; the compiler never builds SQL text from raw input itself.
type Escaper interface {
	// QuoteIdent escapes a table or column identifier.
	QuoteIdent(name string) string
	// QuoteLiteral renders a Go value as a safely escaped SQL literal.
	QuoteLiteral(v any) (string, error)
}

// Compile renders the expression tree as a SQL predicate string. It is
// recursive and side-effect-free apart from delegating escaping. Operators
// outside the enumeration and empty groups are rejected.
func Compile(e Expr, esc Escaper) (string, error) {
	switch n := e.(type) {
	case Cond:
		return compileCond(n, esc)
	case *Cond:
		return compileCond(*n, esc)
	case Group:
		return compileGroup(n, esc)
	case *Group:
		return compileGroup(*n, esc)
	case nil:
		return "", fmt.Errorf("filter: cannot compile nil expression")
	default:
		return "", fmt.Errorf("filter: unknown expression node %T", e)
	}
}

func compileCond(c Cond, esc Escaper) (string, error) {
	if c.Field == "" {
		return "", fmt.Errorf("filter: condition has no field")
	}
	if !c.Op.Valid() {
		return "", fmt.Errorf("filter: invalid operator %q", string(c.Op))
	}
	ident := esc.QuoteIdent(c.Field)

	if c.Value == nil {
		// Equality operators do not apply to null in SQL semantics.
		switch c.Op {
		case OpEq:
			return ident + " IS NULL", nil
		case OpNe:
			return ident + " IS NOT NULL", nil
		default:
			return "", fmt.Errorf("filter: operator %s cannot compare against null", c.Op)
		}
	}

	switch c.Op {
	case OpIn:
		values, ok := asSlice(c.Value)
		if !ok || len(values) == 0 {
			return "", fmt.Errorf("filter: IN requires a non-empty list of values")
		}
		parts := make([]string, len(values))
		for i, v := range values {
			lit, err := esc.QuoteLiteral(v)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return fmt.Sprintf("%s IN (%s)", ident, strings.Join(parts, ", ")), nil

	case OpBetween:
		values, ok := asSlice(c.Value)
		if !ok || len(values) != 2 {
			return "", fmt.Errorf("filter: BETWEEN requires exactly two values")
		}
		lo, err := esc.QuoteLiteral(values[0])
		if err != nil {
			return "", err
		}
		hi, err := esc.QuoteLiteral(values[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", ident, lo, hi), nil

	default:
		lit, err := esc.QuoteLiteral(c.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", ident, c.Op, lit), nil
	}
}

func compileGroup(g Group, esc Escaper) (string, error) {
	if g.Junction != JunctionAnd && g.Junction != JunctionOr {
		return "", fmt.Errorf("filter: invalid junction %q", string(g.Junction))
	}
	if len(g.Exprs) == 0 {
		return "", fmt.Errorf("filter: empty %s group", g.Junction)
	}
	parts := make([]string, len(g.Exprs))
	for i, child := range g.Exprs {
		sql, err := Compile(child, esc)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	// Parenthesize the whole group so precedence survives any nesting depth.
	return "(" + strings.Join(parts, " "+string(g.Junction)+" ") + ")", nil
}

func asSlice(v any) ([]any, bool) {
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
