// pkg/dialects/mysql/types_test.go
package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/schemasync/pkg/schema"
)

func TestMapFieldSignedIntegerTiers(t *testing.T) {
	d := &mysqlDialect{}

	cases := []struct {
		max      float64
		typeName string
		size     int
	}{
		{127, "tinyint", 3},
		{128, "smallint", 3},
		{32767, "smallint", 5},
		{32768, "mediumint", 5},
		{8388607, "mediumint", 7},
		{8388608, "int", 7},
		{2147483647, "int", 10},
		{2147483648, "bigint", 10},
		{9223372036854775807, "bigint", 19},
	}
	for _, tc := range cases {
		spec, err := d.MapField("n", &schema.Field{Type: schema.Int, MaxSize: schema.Size(tc.max)}, nil)
		require.NoError(t, err, "max %v", tc.max)
		assert.Equal(t, tc.typeName, spec.TypeName, "max %v", tc.max)
		assert.Equal(t, tc.size, spec.Size, "max %v", tc.max)
		assert.False(t, spec.Unsigned)
	}
}

func TestMapFieldUnsignedIntegerTiers(t *testing.T) {
	d := &mysqlDialect{}

	cases := []struct {
		max      float64
		typeName string
	}{
		{255, "tinyint"},
		{256, "smallint"},
		{65535, "smallint"},
		{65536, "mediumint"},
		{4294967295, "int"},
		{4294967296, "bigint"},
	}
	for _, tc := range cases {
		spec, err := d.MapField("n", &schema.Field{Type: schema.Uint, MaxSize: schema.Size(tc.max)}, nil)
		require.NoError(t, err, "max %v", tc.max)
		assert.Equal(t, tc.typeName, spec.TypeName, "max %v", tc.max)
		assert.True(t, spec.Unsigned, "max %v", tc.max)
	}
}

func TestMapFieldIntegerValidation(t *testing.T) {
	d := &mysqlDialect{}

	_, err := d.MapField("n", &schema.Field{Type: schema.Int}, nil)
	var verr *schema.ValidationError
	assert.ErrorAs(t, err, &verr, "missing maxSize")

	_, err = d.MapField("n", &schema.Field{Type: schema.Int, MaxSize: schema.Size(0)}, nil)
	assert.ErrorAs(t, err, &verr, "maxSize below 1")

	// wider than any storage class
	_, err = d.MapField("n", &schema.Field{Type: schema.Uint, MaxSize: schema.Size(1e20)}, nil)
	assert.ErrorAs(t, err, &verr)
}

func TestMapFieldDecimal(t *testing.T) {
	d := &mysqlDialect{}

	spec, err := d.MapField("price", &schema.Field{Type: schema.Decimal, MaxSize: schema.Size(99999.99)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "decimal", spec.TypeName)
	assert.Equal(t, 7, spec.Precision)
	assert.Equal(t, 2, spec.Scale)
	assert.Equal(t, "decimal(7,2)", spec.TypeClause())

	spec, err = d.MapField("qty", &schema.Field{Type: schema.Decimal, MaxSize: schema.Size(5000)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, spec.Precision)
	assert.Equal(t, 0, spec.Scale)
}

func TestMapFieldBoolIsNeverUnique(t *testing.T) {
	d := &mysqlDialect{}

	spec, err := d.MapField("active", &schema.Field{Type: schema.Bool, Unique: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "tinyint", spec.TypeName)
	assert.Equal(t, 1, spec.Size)
	assert.False(t, spec.Unique)
	assert.Equal(t, "tinyint(1)", spec.TypeClause())
}

func TestMapFieldString(t *testing.T) {
	d := &mysqlDialect{}

	spec, err := d.MapField("name", &schema.Field{Type: schema.String, MaxSize: schema.Size(50)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "varchar(50)", spec.TypeClause())
}

func TestMapFieldTimestampHasNoRenderedWidth(t *testing.T) {
	d := &mysqlDialect{}

	spec, err := d.MapField("created_at", &schema.Field{Type: schema.Timestamp}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.Size)
	assert.Equal(t, "timestamp", spec.TypeClause())
}

type tableResolver map[string]string

func (r tableResolver) TableOf(model string) (string, error) {
	if t, ok := r[model]; ok {
		return t, nil
	}
	return "", schema.Validationf("", "model %s not registered", model)
}

func TestMapFieldResolvesReference(t *testing.T) {
	d := &mysqlDialect{}
	resolver := tableResolver{"Group": "groups"}

	spec, err := d.MapField("group_id", &schema.Field{
		Type: schema.Uint, MaxSize: schema.Size(4294967295),
		Reference: &schema.Reference{Model: "Group", Field: "id", OnDelete: "CASCADE"},
	}, resolver)
	require.NoError(t, err)
	require.NotNil(t, spec.Reference)
	assert.Equal(t, "groups", spec.Reference.Table)
	assert.Equal(t, "id", spec.Reference.Column)
	assert.Equal(t, "CASCADE", spec.Reference.OnDelete)

	_, err = d.MapField("owner_id", &schema.Field{
		Type: schema.Uint, MaxSize: schema.Size(4294967295),
		Reference: &schema.Reference{Model: "Nobody", Field: "id"},
	}, resolver)
	assert.Error(t, err, "unresolvable target")
}
