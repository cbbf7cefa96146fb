package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/dialect/sql"
	"github.com/syssam/modelgen/dialect/sql/schema"
)

type inspectOptions struct {
	driver      string
	dsn         string
	schema      string
	tables      []string
	destination string
	snapshot    string
	dryRun      bool
}

// InspectCmd returns the inspect command.
func InspectCmd(e *env) *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Generate models from the tables of a live database",
		Long: `Read the tables of a PostgreSQL, MySQL or SQLite database and generate
one model per table. Only read-only catalog queries are issued.

Columns holding a single-column foreign key become foreign keys with a
relationship to the referenced model.

The DSN is best passed through MODELGEN_DB_DSN.

Examples:
  MODELGEN_DB_DSN=postgres://app@localhost/app?sslmode=disable modelgen inspect
  modelgen inspect --driver sqlite --dsn ./app.db -t users -t pets --dry-run
  modelgen inspect --snapshot models.msgpack --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.driver, "driver", "", "Database driver: postgres, mysql or sqlite (default from config)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Data source name (default MODELGEN_DB_DSN)")
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Schema to read (default public, the DSN database or main)")
	cmd.Flags().StringArrayVarP(&opts.tables, "table", "t", nil, "Only read this table, repeat for more")
	cmd.Flags().StringVarP(&opts.destination, "destination", "d", "", "Output directory (default <cwd>/Models)")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Also save the descriptions as a MessagePack document")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the generated modules instead of writing them")
	cmd.Flags().String("author", "", "Module author (default current user)")
	cmd.Flags().Int("workers", 0, "Models generated in parallel (default GOMAXPROCS)")
	return cmd
}

func (e *env) runInspect(cmd *cobra.Command, opts inspectOptions) error {
	ctx := cmd.Context()
	if opts.driver == "" {
		opts.driver = e.cfg.Database.Driver
	}
	if opts.dsn == "" {
		opts.dsn = e.cfg.Database.DSN
	}
	if opts.schema == "" {
		opts.schema = e.cfg.Database.Schema
	}
	if opts.dsn == "" {
		return fmt.Errorf("no data source: set --dsn or MODELGEN_DB_DSN")
	}

	drv, err := sql.Open(opts.driver, opts.dsn)
	if err != nil {
		return err
	}
	defer drv.Close()
	if err := drv.Ping(ctx); err != nil {
		return withHint(err)
	}
	if opts.schema == "" {
		if opts.schema, err = schema.DefaultSchema(drv.Dialect(), opts.dsn); err != nil {
			return err
		}
	}

	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(e.log))
	tables, err := schema.NewInspector(stats, schema.WithLogger(e.log)).Tables(ctx, opts.schema)
	if err != nil {
		return withHint(err)
	}
	e.log.Debug("catalog read", zap.Stringer("stats", stats.Stats()))
	if len(opts.tables) > 0 {
		tables = slices.DeleteFunc(tables, func(t *load.Table) bool {
			return !slices.Contains(opts.tables, t.Name)
		})
	}
	if len(tables) == 0 {
		notice(cmd.OutOrStdout(), fmt.Sprintf("No tables found in schema %s", opts.schema))
		return nil
	}
	schemas, skipped := load.FromTables(tables)
	for _, t := range skipped {
		notice(cmd.OutOrStdout(), fmt.Sprintf("Skipping table %s: no model name pluralizes to it", t.Name))
	}
	if len(schemas) == 0 {
		return nil
	}

	if opts.snapshot != "" {
		data, err := load.MarshalMsgpack(schemas)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.snapshot, data, 0o644); err != nil {
			return err
		}
		e.log.Info("saved snapshot", zap.String("path", opts.snapshot), zap.Int("models", len(schemas)))
	}

	target, err := destination(opts.destination, e.cfg.Destination)
	if err != nil {
		return err
	}
	cfg, err := e.genConfig(cmd, target)
	if err != nil {
		return err
	}
	results, err := gen.NewWriter(cfg, e.log).DryRun(opts.dryRun).WriteAll(ctx, schemas)
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), results, opts.dryRun)
}

// withHint adds a remedy to catalog errors with a well-known cause.
func withHint(err error) error {
	switch {
	case schema.IsAccessDenied(err):
		return fmt.Errorf("%w (check the credentials in the DSN and the catalog privileges of the user)", err)
	case schema.IsUnknownDatabase(err):
		return fmt.Errorf("%w (the database named in the DSN does not exist)", err)
	}
	return err
}
