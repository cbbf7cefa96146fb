package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/load"
)

type generateOptions struct {
	name        string
	columns     []string
	destination string
	file        string
	dryRun      bool
	watch       bool
}

// GenerateCmd returns the generate command.
func GenerateCmd(e *env) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate model modules",
		Long: `Generate one SQLAlchemy model module per model description.

Models are described either on the command line with a name and one
--columns flag per column, or in a document file holding any number of
models. When a file is given, command-line columns are ignored.

Column specs have the form name:Type or name:Type:arg=value,arg=value.

Examples:
  modelgen generate -n User -c id:Integer:primary_key=True -c label:Unicode(20)
  modelgen generate -f models.yaml -d ./app/models
  modelgen generate -f schema.graphql --dry-run
  modelgen generate -f models.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("yaml") {
				opts.file, _ = cmd.Flags().GetString("yaml")
			}
			return e.runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Model name")
	cmd.Flags().StringArrayVarP(&opts.columns, "columns", "c", nil, "Column spec, repeat for each column")
	cmd.Flags().StringVarP(&opts.destination, "destination", "d", "", "Output directory (default <cwd>/Models)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Model document (.yaml, .json, .msgpack, .hcl, .graphql)")
	cmd.Flags().StringP("yaml", "y", "", "Model document")
	_ = cmd.Flags().MarkDeprecated("yaml", "use --file instead")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the generated modules instead of writing them")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Regenerate whenever the document file changes")
	cmd.Flags().String("author", "", "Module author (default current user)")
	cmd.Flags().Int("workers", 0, "Models generated in parallel (default GOMAXPROCS)")

	return cmd
}

func (e *env) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	out := cmd.OutOrStdout()
	switch {
	case opts.file == "" && len(opts.columns) == 0:
		return errors.New("You must provide at least one of --columns or --file")
	case opts.file == "" && opts.name == "":
		return errors.New("Model must have a name!")
	case opts.file != "" && len(opts.columns) > 0:
		notice(out, "Ignoring columns provided through cli since a document file was also provided")
	}
	if opts.watch && opts.file == "" {
		return errors.New("--watch requires --file")
	}

	target, err := destination(opts.destination, e.cfg.Destination)
	if err != nil {
		return err
	}
	cfg, err := e.genConfig(cmd, target)
	if err != nil {
		return err
	}

	run := func() error {
		schemas, err := e.schemas(opts)
		if err != nil {
			return err
		}
		results, err := gen.NewWriter(cfg, e.log).DryRun(opts.dryRun).WriteAll(cmd.Context(), schemas)
		if err != nil {
			return err
		}
		return report(out, results, opts.dryRun)
	}
	if !opts.watch {
		return run()
	}
	if err := run(); err != nil {
		e.log.Error("generate", zap.Error(err))
	}
	return watch(cmd.Context(), e.log, opts.file, run)
}

func (e *env) schemas(opts generateOptions) ([]*load.Schema, error) {
	if opts.file != "" {
		return load.LoadFile(opts.file)
	}
	s, err := load.ParseColumns(opts.name, opts.columns)
	if err != nil {
		return nil, err
	}
	return []*load.Schema{s}, nil
}

// destination resolves the output directory: the flag when set, else the
// configured directory, made absolute against the working directory.
func destination(flag, configured string) (string, error) {
	dir := flag
	if dir == "" {
		dir = configured
	}
	if dir == "" {
		dir = "Models"
	}
	return filepath.Abs(dir)
}
