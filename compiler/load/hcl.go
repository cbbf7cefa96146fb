package load

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/modelgen/schema/field"
)

// ParseHCL decodes an Atlas HCL schema document (PostgreSQL flavor) and
// returns one entity description per table. Tables without an entity name
// (see EntityName) are an error.
func ParseHCL(data []byte, source string) ([]*Schema, error) {
	var realm schema.Realm
	if err := postgres.EvalHCLBytes(data, &realm, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	var tables []*Table
	for _, s := range realm.Schemas {
		for _, t := range s.Tables {
			tables = append(tables, atlasTable(t))
		}
	}
	schemas, skipped := FromTables(tables)
	if len(skipped) > 0 {
		names := make([]string, len(skipped))
		for i, t := range skipped {
			names[i] = t.Name
		}
		return nil, fmt.Errorf("%s: no model name pluralizes to table %s", source, strings.Join(names, ", "))
	}
	for _, s := range schemas {
		s.Pos = source + ":" + s.Pos
	}
	return schemas, nil
}

func atlasTable(t *schema.Table) *Table {
	pk := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				pk[p.C.Name] = true
			}
		}
	}
	unique := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idx.Unique && len(idx.Parts) == 1 && idx.Parts[0].C != nil {
			unique[idx.Parts[0].C.Name] = true
		}
	}
	out := &Table{Name: t.Name}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, &TableColumn{
			Name:       c.Name,
			Type:       atlasType(c.Type),
			Nullable:   c.Type != nil && c.Type.Null,
			PrimaryKey: pk[c.Name],
			Unique:     unique[c.Name],
		})
	}
	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) != 1 || len(fk.RefColumns) != 1 || fk.RefTable == nil {
			continue
		}
		out.ForeignKeys = append(out.ForeignKeys, &TableForeignKey{
			Column:    fk.Columns[0].Name,
			RefTable:  fk.RefTable.Name,
			RefColumn: fk.RefColumns[0].Name,
		})
	}
	return out
}

func atlasType(ct *schema.ColumnType) string {
	if ct == nil || ct.Type == nil {
		return ""
	}
	switch t := ct.Type.(type) {
	case *schema.IntegerType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.StringType:
		return field.FromSQL(t.T, t.Size, 0, 0)
	case *schema.DecimalType:
		return field.FromSQL(t.T, 0, t.Precision, t.Scale)
	case *schema.FloatType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.BoolType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.TimeType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.JSONType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.UUIDType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.BinaryType:
		return field.FromSQL(t.T, 0, 0, 0)
	case *schema.EnumType:
		values := make([]string, len(t.Values))
		for i, v := range t.Values {
			values[i] = Quote(v)
		}
		return fmt.Sprintf("Enum(%s, name=%s)", strings.Join(values, ", "), Quote(t.T))
	}
	raw := ct.Raw
	if raw == "" {
		if s, err := postgres.FormatType(ct.Type); err == nil {
			raw = s
		}
	}
	name, args := field.SplitSQL(raw)
	size := 0
	if len(args) > 0 {
		size = args[0]
	}
	return field.FromSQL(name, size, 0, 0)
}
