package schema

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/dialect"
	"github.com/syssam/modelgen/dialect/sql"
)

// startPostgres starts a disposable PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "modelgen",
			"POSTGRES_USER":     "modelgen",
			"POSTGRES_PASSWORD": "modelgen",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://modelgen:modelgen@%s:%s/modelgen?sslmode=disable", host, port.Port())
}

func TestInspectorPostgresIntegration(t *testing.T) {
	dsn := startPostgres(t)
	drv, err := sql.Open(dialect.Postgres, dsn)
	require.NoError(t, err)
	defer drv.Close()

	ctx := context.Background()
	require.NoError(t, drv.Ping(ctx))
	for _, stmt := range []string{
		`CREATE TYPE mood AS ENUM ('happy', 'sad')`,
		`CREATE TABLE users (id serial PRIMARY KEY, email varchar(200) NOT NULL UNIQUE, profile jsonb)`,
		`CREATE TABLE pets (id bigserial PRIMARY KEY, owner_id integer REFERENCES users(id), tags text[], scores int4[], mood mood NOT NULL)`,
	} {
		_, err := drv.DB().ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	name, err := DefaultSchema(dialect.Postgres, dsn)
	require.NoError(t, err)
	stats := sql.NewStatsDriver(drv)
	tables, err := NewInspector(stats).Tables(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Stats().Queries)

	require.Len(t, tables, 2)
	assert.Equal(t, []*load.TableColumn{
		{Name: "id", Type: "BigInteger", PrimaryKey: true},
		{Name: "owner_id", Type: "Integer", Nullable: true},
		{Name: "tags", Type: "ARRAY(UnicodeText)", Nullable: true},
		{Name: "scores", Type: "ARRAY(Integer)", Nullable: true},
		{Name: "mood", Type: "Enum('happy', 'sad', name='mood')"},
	}, tables[0].Columns)
	assert.Equal(t, []*load.TableForeignKey{{Column: "owner_id", RefTable: "users", RefColumn: "id"}}, tables[0].ForeignKeys)
	assert.Equal(t, []*load.TableColumn{
		{Name: "id", Type: "Integer", PrimaryKey: true},
		{Name: "email", Type: "Unicode(200)", Unique: true},
		{Name: "profile", Type: "JSONB", Nullable: true},
	}, tables[1].Columns)
}
