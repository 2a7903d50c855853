// pkg/dialects/mysql/mysql_test.go
package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdent(t *testing.T) {
	d := &mysqlDialect{}

	assert.Equal(t, "`users`", d.QuoteIdent("users"))
	assert.Equal(t, "`weird``name`", d.QuoteIdent("weird`name"))
}

func TestQuoteLiteral(t *testing.T) {
	d := &mysqlDialect{}

	cases := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{true, "1"},
		{false, "0"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{3.14, "3.14"},
		{"plain", "'plain'"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"line\nbreak", `'line\nbreak'`},
		{"nul\x00byte", `'nul\0byte'`},
		{[]byte("bytes"), "'bytes'"},
		{time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), "'2026-08-30 12:00:00'"},
	}
	for _, tc := range cases {
		got, err := d.QuoteLiteral(tc.in)
		require.NoError(t, err, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestQuoteLiteralRejectsUnsupportedTypes(t *testing.T) {
	d := &mysqlDialect{}

	_, err := d.QuoteLiteral(struct{}{})
	assert.Error(t, err)

	_, err = d.QuoteLiteral(map[string]int{"a": 1})
	assert.Error(t, err)
}
