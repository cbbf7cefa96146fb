package cli

import (
	"bytes"
	"context"
	dsql "database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/modelgen/compiler/load"
)

const document = `
User:
  columns:
    - name: id
      type: Integer
      primary_key: true
    - name: label
      type: Unicode(20)
Pet:
  columns:
    - name: id
      type: Integer
      primary_key: true
  foreign_keys:
    - name: owner_id
      type: Integer
      reference:
        table: users
        column: id
  relationships:
    - name: owner
      class: User
`

// execute runs the root command in a fresh working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("MODELGEN_AUTHOR", "tester")
	t.Setenv("MODELGEN_DB_DSN", "")

	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestGenerateColumns(t *testing.T) {
	out, err := execute(t, "generate", "-n", "User",
		"-c", "id:Integer:primary_key=true",
		"-c", "label:Unicode(20):nullable=false",
		"-d", "out/")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	src, err := os.ReadFile(filepath.Join("out", "User.py"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "__author__ = 'tester'")
	assert.Contains(t, string(src), "id = Column(Integer, primary_key=True)")
	assert.Contains(t, string(src), "label = Column(Unicode(20), nullable=False)")
}

func TestGenerateDefaultDestination(t *testing.T) {
	_, err := execute(t, "generate", "-n", "Tag", "-c", "id:Integer")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("Models", "Tag.py"))
}

func TestGenerateArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  string
	}{
		{"nothing", []string{"generate", "-n", "User"}, "You must provide at least one of --columns or --file"},
		{"no name", []string{"generate", "-c", "id:Integer"}, "Model must have a name!"},
		{"no type", []string{"generate", "-n", "User", "-c", "id"}, `must define "type"`},
		{"watch columns", []string{"generate", "-n", "User", "-c", "id:Integer", "--watch"}, "--watch requires --file"},
		{"missing file", []string{"generate", "-f", "absent.yaml"}, "file not found"},
		{"bad author", []string{"generate", "-n", "User", "-c", "id:Integer", "--author", "a\nb"}, "author cannot span lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestGenerateFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path, err := filepath.Abs(writeFile(t, "models.yaml", document))
	require.NoError(t, err)

	out, err := execute(t, "generate", "-f", path, "-c", "ignored:Integer", "--author", "jdoe", "--workers", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ignoring columns provided through cli since a document file was also provided")

	src, err := os.ReadFile(filepath.Join("Models", "Pet.py"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "__author__ = 'jdoe'")
	assert.Contains(t, string(src), "owner_id = Column(Integer, ForeignKey('users.id'))")
	assert.FileExists(t, filepath.Join("Models", "User.py"))
}

func TestGenerateDeprecatedYAMLFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	path, err := filepath.Abs(writeFile(t, "models.yaml", document))
	require.NoError(t, err)

	out, err := execute(t, "generate", "-y", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "class User(Base):")
	assert.Contains(t, out, "class Pet(Base):")
	assert.NoDirExists(t, "Models")
}

func TestGenerateWriteFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	path, err := filepath.Abs(writeFile(t, "models.yaml", document+`
"../Escape":
  columns:
    - name: id
      type: Integer
`))
	require.NoError(t, err)

	out, err := execute(t, "generate", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsafe model name")
	assert.Contains(t, out, "failed ../Escape")
	assert.Contains(t, out, "__tablename__ = '../escapes'")
	assert.FileExists(t, filepath.Join("Models", "User.py"))
	assert.NoFileExists(t, "Escape.py")
}

func TestLint(t *testing.T) {
	t.Chdir(t.TempDir())
	clean, err := filepath.Abs(writeFile(t, "clean.yaml", document))
	require.NoError(t, err)
	keyless, err := filepath.Abs(writeFile(t, "keyless.yaml", "Note:\n  columns:\n    - name: body\n      type: Text\n"))
	require.NoError(t, err)
	dup, err := filepath.Abs(writeFile(t, "dup.yaml", "Tag:\n  columns:\n    - name: id\n      type: Integer\n      primary_key: true\n    - name: id\n      type: Integer\n"))
	require.NoError(t, err)

	out, err := execute(t, "lint", clean)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")

	out, err = execute(t, "lint", clean, keyless)
	require.NoError(t, err)
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, "model has no primary key")

	_, err = execute(t, "lint", "--strict", keyless)
	require.EqualError(t, err, "lint found warnings")

	out, err = execute(t, "lint", dup)
	require.EqualError(t, err, "lint found errors")
	assert.Contains(t, out, "error:")
}

func TestInspectSQLite(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath, err := filepath.Abs("app.db")
	require.NoError(t, err)
	db, err := dsql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE users (id INTEGER PRIMARY KEY, email VARCHAR(120) NOT NULL UNIQUE);
CREATE TABLE pets (id INTEGER PRIMARY KEY, owner_id INTEGER REFERENCES users(id));
CREATE TABLE audit (at TEXT);
CREATE TABLE people (id INTEGER PRIMARY KEY);
CREATE TABLE user_accounts (id INTEGER PRIMARY KEY, person_id INTEGER REFERENCES people(id));`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	snapshot, err := filepath.Abs("snap.msgpack")
	require.NoError(t, err)

	out, err := execute(t, "inspect", "--driver", "sqlite", "--dsn", dbPath,
		"-t", "users", "-t", "pets", "--snapshot", snapshot, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "class User(Base):")
	assert.Contains(t, out, "__tablename__ = 'users'")
	assert.Contains(t, out, "__tablename__ = 'pets'")
	assert.Contains(t, out, "class Pet(Base):")
	assert.NotContains(t, out, "class Audit(Base):")

	schemas, err := load.LoadFile(snapshot)
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	names := []string{schemas[0].Name, schemas[1].Name}
	assert.ElementsMatch(t, []string{"User", "Pet"}, names)
}

func TestInspectUnmappedTable(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath, err := filepath.Abs("app.db")
	require.NoError(t, err)
	db, err := dsql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE people (id INTEGER PRIMARY KEY);
CREATE TABLE user_accounts (id INTEGER PRIMARY KEY, person_id INTEGER REFERENCES people(id));`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "inspect", "--driver", "sqlite", "--dsn", dbPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipping table people: no model name pluralizes to it")
	assert.Contains(t, out, "class User_account(Base):")
	assert.Contains(t, out, "__tablename__ = 'user_accounts'")
	assert.Contains(t, out, "person_id = Column(Integer, ForeignKey('people.id'))")
	assert.NotContains(t, out, "relationship(")
}

func TestInspectNoDSN(t *testing.T) {
	_, err := execute(t, "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data source")
}

func TestInspectUnsupportedDriver(t *testing.T) {
	_, err := execute(t, "inspect", "--driver", "oracle", "--dsn", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestWithHint(t *testing.T) {
	err := withHint(&pq.Error{Code: "28P01", Message: "password authentication failed"})
	assert.Contains(t, err.Error(), "check the credentials")
	var pqErr *pq.Error
	assert.ErrorAs(t, err, &pqErr)

	err = withHint(&pq.Error{Code: "3D000", Message: "database \"x\" does not exist"})
	assert.Contains(t, err.Error(), "does not exist)")

	plain := os.ErrClosed
	assert.Equal(t, plain, withHint(plain))
}

func TestEnv(t *testing.T) {
	out, err := execute(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "MODELGEN_DESTINATION")
	assert.Contains(t, out, "MODELGEN_DB_DSN")
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "--config", "absent.yaml", "generate", "-n", "User", "-c", "id:Integer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestDestination(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := destination("", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "Models"), got)

	got, err = destination("/tmp/out/", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", got)

	got, err = destination("", "gen")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "gen"), got)
}
