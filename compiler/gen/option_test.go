package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithAuthor(t *testing.T) {
	t.Run("sets author", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithAuthor("jdoe")(c))
		assert.Equal(t, "jdoe", c.Author)
	})

	t.Run("multi-line author returns error", func(t *testing.T) {
		c := &Config{}
		err := WithAuthor("a\nb")(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Empty(t, c.Author)
	})
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithHeader("Code generated by modelgen.")(c))
		assert.Equal(t, "# Code generated by modelgen.\n", c.header())
	})

	t.Run("empty header renders nothing", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Equal(t, "", c.header())
	})

	t.Run("comment lines are kept", func(t *testing.T) {
		c := &Config{Header: "#!/usr/bin/env python\nfoo \n"}
		assert.Equal(t, "#!/usr/bin/env python\n# foo\n", c.header())
	})
}

func TestWithStorage(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithStorage("postgres")(c))
		require.NotNil(t, c.Storage)
		assert.Equal(t, "postgres", c.Storage.String())
		assert.Equal(t, "sqlalchemy.dialects.postgresql", c.Storage.Dialect)
	})

	t.Run("unknown storage returns error", func(t *testing.T) {
		c := &Config{}
		err := WithStorage("mongo")(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), `invalid storage driver "mongo"`)
	})
}

func TestWithTarget(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		want    string
		wantErr bool
	}{
		{"plain", "Models", "Models", false},
		{"trailing slash", "out/Models/", "out/Models", false},
		{"root", "/", "/", false},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithTarget(tt.dir)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Target)
		})
	}
}

func TestWithWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithWorkers(3)(c))
	assert.Equal(t, 3, c.workers())

	require.NoError(t, WithWorkers(0)(c))
	assert.Equal(t, runtime.GOMAXPROCS(0), c.workers())

	err := WithWorkers(-1)(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestConfigApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithAuthor("jdoe"), WithWorkers(-1), WithTarget("Models"))
		require.Error(t, err)
		assert.Equal(t, "jdoe", c.Author)
		assert.Empty(t, c.Target)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithWorkers(-1), WithTarget("Models"), WithStorage("mongo"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "Storage")
		assert.Equal(t, "Models", c.Target)
	})
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	require.NotNil(t, c.Storage)
	assert.Equal(t, "postgres", c.Storage.Name)

	_, err = NewConfig(WithTarget(""))
	require.Error(t, err)

	assert.Panics(t, func() { MustNewConfig(WithWorkers(-2)) })
	assert.NotPanics(t, func() { MustNewConfig(WithAuthor("jdoe")) })
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage("postgres")
	require.NoError(t, err)
	assert.True(t, s.IsBackendType("JSONB"))
	assert.False(t, s.IsBackendType("Integer"))
	assert.True(t, s.IsMutable("HSTORE"))
	assert.False(t, s.IsMutable("ARRAY"))

	_, err = NewStorage("sql")
	require.Error(t, err)
}
