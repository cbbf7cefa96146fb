package schema

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/dialect"
	"github.com/syssam/modelgen/schema/field"
)

// Driver is the subset of dialect.Driver the inspector needs.
type Driver interface {
	dialect.Querier
	Dialect() string
}

// Inspector reads table catalogs of a live database. It only issues
// read-only catalog queries.
type Inspector struct {
	drv Driver
	log *zap.Logger
}

// InspectOption configures the Inspector.
type InspectOption func(*Inspector)

// WithLogger sets the logger used for per-table debug output.
func WithLogger(log *zap.Logger) InspectOption {
	return func(i *Inspector) {
		i.log = log
	}
}

// NewInspector creates an inspector reading through drv.
func NewInspector(drv Driver, opts ...InspectOption) *Inspector {
	i := &Inspector{drv: drv, log: zap.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DefaultSchema returns the schema inspected when none is configured:
// "public" on PostgreSQL, the DSN database on MySQL and "main" on SQLite.
func DefaultSchema(name, dsn string) (string, error) {
	switch name {
	case dialect.Postgres:
		return "public", nil
	case dialect.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("dialect/sql/schema: parse mysql dsn: %w", err)
		}
		if cfg.DBName == "" {
			return "", fmt.Errorf("dialect/sql/schema: mysql dsn has no database name")
		}
		return cfg.DBName, nil
	case dialect.SQLite:
		return "main", nil
	}
	return "", fmt.Errorf("dialect/sql/schema: unsupported dialect %q", name)
}

// Tables returns the base tables of the named schema ordered by name. Only
// single-column foreign keys and unique constraints are reported.
func (i *Inspector) Tables(ctx context.Context, name string) ([]*load.Table, error) {
	var (
		tables []*load.Table
		err    error
	)
	switch d := i.drv.Dialect(); d {
	case dialect.Postgres:
		tables, err = i.catalog(ctx, postgresQueries, name)
	case dialect.MySQL:
		tables, err = i.catalog(ctx, mysqlQueries, name)
	case dialect.SQLite:
		tables, err = i.sqlite(ctx)
	default:
		return nil, fmt.Errorf("dialect/sql/schema: unsupported dialect %q", d)
	}
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		i.log.Debug("read table",
			zap.String("table", t.Name),
			zap.Int("columns", len(t.Columns)),
			zap.Int("foreign_keys", len(t.ForeignKeys)),
		)
	}
	return tables, nil
}

// catalogQueries holds the catalog queries of a dialect. All take the
// schema name as their only argument.
type catalogQueries struct {
	// enums yields enum type name and label in sort order. Optional.
	enums string
	// columns yields table, column, data type, is_nullable, length,
	// precision and scale.
	columns string
	// constraints yields table, constraint name, constraint type, column,
	// referenced table and referenced column.
	constraints string
}

var postgresQueries = catalogQueries{
	enums: `SELECT t.typname, e.enumlabel
FROM pg_catalog.pg_enum e
JOIN pg_catalog.pg_type t ON t.oid = e.enumtypid
JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1
ORDER BY t.typname, e.enumsortorder`,
	columns: `SELECT c.table_name, c.column_name,
  CASE WHEN c.data_type = 'ARRAY' THEN substr(c.udt_name, 2) || '[]'
       WHEN c.data_type = 'USER-DEFINED' THEN c.udt_name
       ELSE c.data_type END,
  c.is_nullable,
  COALESCE(c.character_maximum_length, 0), COALESCE(c.numeric_precision, 0), COALESCE(c.numeric_scale, 0)
FROM information_schema.columns c
JOIN information_schema.tables t ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
ORDER BY c.table_name, c.ordinal_position`,
	constraints: `SELECT tc.table_name, tc.constraint_name, tc.constraint_type, kcu.column_name,
  COALESCE(ccu.table_name, ''), COALESCE(ccu.column_name, '')
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu ON kcu.constraint_schema = tc.constraint_schema AND kcu.constraint_name = tc.constraint_name AND kcu.table_name = tc.table_name
LEFT JOIN information_schema.constraint_column_usage ccu ON tc.constraint_type = 'FOREIGN KEY' AND ccu.constraint_schema = tc.constraint_schema AND ccu.constraint_name = tc.constraint_name
WHERE tc.table_schema = $1 AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE', 'FOREIGN KEY')
ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`,
}

var mysqlQueries = catalogQueries{
	columns: `SELECT c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.IS_NULLABLE,
  COALESCE(c.CHARACTER_MAXIMUM_LENGTH, 0), COALESCE(c.NUMERIC_PRECISION, 0), COALESCE(c.NUMERIC_SCALE, 0)
FROM INFORMATION_SCHEMA.COLUMNS c
JOIN INFORMATION_SCHEMA.TABLES t ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
WHERE c.TABLE_SCHEMA = ? AND t.TABLE_TYPE = 'BASE TABLE'
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`,
	constraints: `SELECT kcu.TABLE_NAME, kcu.CONSTRAINT_NAME, tc.CONSTRAINT_TYPE, kcu.COLUMN_NAME,
  COALESCE(kcu.REFERENCED_TABLE_NAME, ''), COALESCE(kcu.REFERENCED_COLUMN_NAME, '')
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON kcu.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND kcu.TABLE_NAME = tc.TABLE_NAME AND kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
WHERE tc.TABLE_SCHEMA = ? AND tc.CONSTRAINT_TYPE IN ('PRIMARY KEY', 'UNIQUE', 'FOREIGN KEY')
ORDER BY kcu.TABLE_NAME, kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`,
}

// columnType maps a catalog type to a type expression. Names of enum
// types, also as array elements, map to Enum with their labels.
func columnType(enums map[string][]string, typ string, size, precision, scale int) string {
	if elem, ok := strings.CutSuffix(typ, "[]"); ok {
		if _, ok := enums[elem]; ok {
			return "ARRAY(" + columnType(enums, elem, 0, 0, 0) + ")"
		}
	}
	labels, ok := enums[typ]
	if !ok {
		return field.FromSQL(typ, size, precision, scale)
	}
	args := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		args = append(args, load.Quote(l))
	}
	return fmt.Sprintf("Enum(%s, name=%s)", strings.Join(args, ", "), load.Quote(typ))
}

// constraint is one catalog constraint with its columns in order.
type constraint struct {
	table, name, kind   string
	columns             []string
	refTable, refColumn string
}

func (i *Inspector) catalog(ctx context.Context, q catalogQueries, name string) ([]*load.Table, error) {
	var (
		tables []*load.Table
		byName = make(map[string]*load.Table)
		enums  = make(map[string][]string)
	)
	if q.enums != "" {
		err := i.query(ctx, q.enums, []any{name}, func(rows *sql.Rows) error {
			var typ, label string
			if err := rows.Scan(&typ, &label); err != nil {
				return err
			}
			enums[typ] = append(enums[typ], label)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("dialect/sql/schema: read enum types of %q: %w", name, err)
		}
	}
	err := i.query(ctx, q.columns, []any{name}, func(rows *sql.Rows) error {
		var (
			table, column, typ, nullable string
			size, precision, scale       int64
		)
		if err := rows.Scan(&table, &column, &typ, &nullable, &size, &precision, &scale); err != nil {
			return err
		}
		t, ok := byName[table]
		if !ok {
			t = &load.Table{Name: table}
			byName[table] = t
			tables = append(tables, t)
		}
		t.Columns = append(t.Columns, &load.TableColumn{
			Name:     column,
			Type:     columnType(enums, typ, int(size), int(precision), int(scale)),
			Nullable: strings.EqualFold(nullable, "YES"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: read columns of %q: %w", name, err)
	}

	var constraints []*constraint
	err = i.query(ctx, q.constraints, []any{name}, func(rows *sql.Rows) error {
		var table, cname, kind, column, refTable, refColumn string
		if err := rows.Scan(&table, &cname, &kind, &column, &refTable, &refColumn); err != nil {
			return err
		}
		if n := len(constraints); n > 0 && constraints[n-1].table == table && constraints[n-1].name == cname {
			c := constraints[n-1]
			if !slices.Contains(c.columns, column) {
				c.columns = append(c.columns, column)
			}
			return nil
		}
		constraints = append(constraints, &constraint{
			table:     table,
			name:      cname,
			kind:      kind,
			columns:   []string{column},
			refTable:  refTable,
			refColumn: refColumn,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: read constraints of %q: %w", name, err)
	}
	for _, c := range constraints {
		if t, ok := byName[c.table]; ok {
			apply(t, c)
		}
	}
	return tables, nil
}

// apply records a constraint on its table.
func apply(t *load.Table, c *constraint) {
	switch c.kind {
	case "PRIMARY KEY":
		for _, name := range c.columns {
			if col := column(t, name); col != nil {
				col.PrimaryKey = true
			}
		}
	case "UNIQUE":
		if len(c.columns) == 1 {
			if col := column(t, c.columns[0]); col != nil {
				col.Unique = true
			}
		}
	case "FOREIGN KEY":
		if len(c.columns) == 1 && c.refTable != "" && c.refColumn != "" {
			t.ForeignKeys = append(t.ForeignKeys, &load.TableForeignKey{
				Column:    c.columns[0],
				RefTable:  c.refTable,
				RefColumn: c.refColumn,
			})
		}
	}
}

const (
	sqliteTables      = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	sqliteColumns     = `SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`
	sqliteForeignKeys = `SELECT id, "from", "table", COALESCE("to", '') FROM pragma_foreign_key_list(?) ORDER BY id, seq`
	sqliteUniques     = `SELECT name FROM pragma_index_list(?) WHERE "unique" = 1 AND origin = 'u'`
	sqliteIndexInfo   = `SELECT name FROM pragma_index_info(?) ORDER BY seqno`
)

func (i *Inspector) sqlite(ctx context.Context) ([]*load.Table, error) {
	var tables []*load.Table
	err := i.query(ctx, sqliteTables, []any{}, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, &load.Table{Name: name})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: read tables: %w", err)
	}
	for _, t := range tables {
		if err := i.sqliteTable(ctx, t); err != nil {
			return nil, fmt.Errorf("dialect/sql/schema: read table %q: %w", t.Name, err)
		}
	}
	// A foreign key without a target column references the primary key.
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefColumn == "" {
				fk.RefColumn = primaryKey(tables, fk.RefTable)
			}
		}
	}
	return tables, nil
}

func (i *Inspector) sqliteTable(ctx context.Context, t *load.Table) error {
	err := i.query(ctx, sqliteColumns, []any{t.Name}, func(rows *sql.Rows) error {
		var (
			name, decl  string
			notNull, pk int
		)
		if err := rows.Scan(&name, &decl, &notNull, &pk); err != nil {
			return err
		}
		// Columns declared without a type have BLOB affinity.
		if strings.TrimSpace(decl) == "" {
			decl = "blob"
		}
		typ, args := field.SplitSQL(decl)
		size, precision, scale := 0, 0, 0
		switch len(args) {
		case 1:
			size, precision = args[0], args[0]
		case 2:
			precision, scale = args[0], args[1]
		}
		t.Columns = append(t.Columns, &load.TableColumn{
			Name:       name,
			Type:       field.FromSQL(typ, size, precision, scale),
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
		})
		return nil
	})
	if err != nil {
		return err
	}

	var fks []*constraint
	err = i.query(ctx, sqliteForeignKeys, []any{t.Name}, func(rows *sql.Rows) error {
		var (
			id                     int
			from, refTable, refCol string
		)
		if err := rows.Scan(&id, &from, &refTable, &refCol); err != nil {
			return err
		}
		name := fmt.Sprint(id)
		if n := len(fks); n > 0 && fks[n-1].name == name {
			fks[n-1].columns = append(fks[n-1].columns, from)
			return nil
		}
		fks = append(fks, &constraint{table: t.Name, name: name, kind: "FOREIGN KEY", columns: []string{from}, refTable: refTable, refColumn: refCol})
		return nil
	})
	if err != nil {
		return err
	}
	for _, fk := range fks {
		if len(fk.columns) == 1 {
			t.ForeignKeys = append(t.ForeignKeys, &load.TableForeignKey{Column: fk.columns[0], RefTable: fk.refTable, RefColumn: fk.refColumn})
		}
	}

	var indexes []string
	err = i.query(ctx, sqliteUniques, []any{t.Name}, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		indexes = append(indexes, name)
		return nil
	})
	if err != nil {
		return err
	}
	for _, idx := range indexes {
		var columns []string
		err := i.query(ctx, sqliteIndexInfo, []any{idx}, func(rows *sql.Rows) error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			columns = append(columns, name)
			return nil
		})
		if err != nil {
			return err
		}
		apply(t, &constraint{kind: "UNIQUE", columns: columns})
	}
	return nil
}

// query runs a catalog query and calls scan for every row.
func (i *Inspector) query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := i.drv.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return rows.Close()
}

func column(t *load.Table, name string) *load.TableColumn {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func primaryKey(tables []*load.Table, name string) string {
	for _, t := range tables {
		if t.Name != name {
			continue
		}
		for _, c := range t.Columns {
			if c.PrimaryKey {
				return c.Name
			}
		}
	}
	return "id"
}
