package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		want   TypeInfo
		valid  bool
		params bool
	}{
		{"bare", "Integer", TypeInfo{Name: "Integer"}, true, false},
		{"sized", "Unicode(20)", TypeInfo{Name: "Unicode", Params: "(20)"}, true, true},
		{"multiple params", "Numeric(10, 2)", TypeInfo{Name: "Numeric", Params: "(10, 2)"}, true, true},
		{"nested params", "ARRAY(Integer(4))", TypeInfo{Name: "ARRAY", Params: "(Integer(4))"}, true, true},
		{"empty params", "Unicode()", TypeInfo{Name: "Unicode", Params: "()"}, true, true},
		{"empty", "", TypeInfo{}, false, false},
		{"leading space", " Integer", TypeInfo{}, false, false},
		{"leading paren", "(20)", TypeInfo{}, false, false},
		{"unclosed params", "Unicode(20", TypeInfo{Name: "Unicode"}, true, false},
		{"trailing junk", "Unicode(20) x", TypeInfo{Name: "Unicode"}, true, false},
		{"word suffix", "Integer primary", TypeInfo{Name: "Integer"}, true, false},
		{"underscore", "DOUBLE_PRECISION", TypeInfo{Name: "DOUBLE_PRECISION"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseType(tt.expr)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, got.Valid())
			assert.Equal(t, tt.params, got.HasParams())
		})
	}
}

func TestTypeInfoString(t *testing.T) {
	assert.Equal(t, "Unicode(20)", ParseType("Unicode(20)").String())
	assert.Equal(t, "Integer", ParseType("Integer").String())
	assert.Equal(t, "", TypeInfo{}.String())
}

func TestClassification(t *testing.T) {
	t.Run("backend specific", func(t *testing.T) {
		for _, name := range []string{"JSONB", "UUID", "INET", "TSTZRANGE", "DOUBLE_PRECISION"} {
			assert.True(t, IsBackendSpecific(name), name)
		}
		for _, name := range []string{"Integer", "Unicode", "jsonb", ""} {
			assert.False(t, IsBackendSpecific(name), name)
		}
	})

	t.Run("mutable container", func(t *testing.T) {
		for _, name := range []string{"HSTORE", "JSON", "JSONB"} {
			assert.True(t, IsMutableContainer(name), name)
			assert.True(t, IsBackendSpecific(name), "mutable types are dialect types: %s", name)
		}
		for _, name := range []string{"ARRAY", "Json", "Unicode"} {
			assert.False(t, IsMutableContainer(name), name)
		}
	})

	t.Run("no params", func(t *testing.T) {
		assert.True(t, TakesNoParams("Integer"))
		assert.True(t, TakesNoParams("JSONB"))
		assert.False(t, TakesNoParams("Unicode"))
		assert.False(t, TakesNoParams("ARRAY"))
	})
}

func TestTypeInfoElement(t *testing.T) {
	tests := []struct {
		expr string
		want TypeInfo
		ok   bool
	}{
		{"ARRAY(Integer)", TypeInfo{Name: "Integer"}, true},
		{"ARRAY(Unicode(20), dimensions=2)", TypeInfo{Name: "Unicode", Params: "(20)"}, true},
		{"ARRAY(Numeric(10, 2))", TypeInfo{Name: "Numeric", Params: "(10, 2)"}, true},
		{"ARRAY(ARRAY(UUID))", TypeInfo{Name: "ARRAY", Params: "(UUID)"}, true},
		{"ARRAY", TypeInfo{}, false},
		{"ARRAY()", TypeInfo{}, false},
		{"Unicode(20)", TypeInfo{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := ParseType(tt.expr).Element()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromSQL(t *testing.T) {
	tests := []struct {
		dataType             string
		size, precision, scl int
		want                 string
	}{
		{"integer", 0, 32, 0, "Integer"},
		{"INT", 0, 0, 0, "Integer"},
		{"bigint", 0, 0, 0, "BigInteger"},
		{"smallint", 0, 0, 0, "SmallInteger"},
		{"character varying", 20, 0, 0, "Unicode(20)"},
		{"varchar", 0, 0, 0, "Unicode"},
		{"text", 0, 0, 0, "UnicodeText"},
		{"boolean", 0, 0, 0, "Boolean"},
		{"numeric", 0, 10, 2, "Numeric(10, 2)"},
		{"decimal", 0, 8, 0, "Numeric(8)"},
		{"numeric", 0, 0, 0, "Numeric"},
		{"double precision", 0, 0, 0, "Float"},
		{"timestamp with time zone", 0, 0, 0, "DateTime"},
		{"date", 0, 0, 0, "Date"},
		{"jsonb", 0, 0, 0, "JSONB"},
		{"json", 0, 0, 0, "JSON"},
		{"uuid", 0, 0, 0, "UUID"},
		{"bytea", 0, 0, 0, "LargeBinary"},
		{"int4range", 0, 0, 0, "INT4RANGE"},
		{"bit", 0, 0, 0, "BIT"},
		{"integer[]", 0, 0, 0, "ARRAY(Integer)"},
		{"int8[]", 0, 0, 0, "ARRAY(BigInteger)"},
		{"varchar[]", 0, 0, 0, "ARRAY(Unicode)"},
		{"text[][]", 0, 0, 0, "ARRAY(ARRAY(UnicodeText))"},
		{"timestamptz[]", 0, 0, 0, "ARRAY(DateTime)"},
		{"bit varying", 0, 0, 0, "Unicode"},
		{"citext", 0, 0, 0, "Unicode"},
		{"mood[]", 0, 0, 0, "ARRAY(Unicode)"},
	}
	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, FromSQL(tt.dataType, tt.size, tt.precision, tt.scl))
		})
	}
}

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		decl string
		name string
		args []int
	}{
		{"VARCHAR(20)", "VARCHAR", []int{20}},
		{"DECIMAL(10,2)", "DECIMAL", []int{10, 2}},
		{"DECIMAL(10, 2)", "DECIMAL", []int{10, 2}},
		{"INTEGER", "INTEGER", nil},
		{"", "", nil},
		{"VARCHAR(20", "VARCHAR(20", nil},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			name, args := SplitSQL(tt.decl)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}
