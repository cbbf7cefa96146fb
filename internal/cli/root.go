// Package cli implements the modelgen commands.
package cli

import (
	"context"
	"fmt"
	"os/user"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/internal/config"
	"github.com/syssam/modelgen/internal/logging"
)

// env carries the state shared by the subcommands. It is filled by the
// root command before any subcommand runs.
type env struct {
	configPath string
	verbose    bool

	cfg   *config.Config
	log   *zap.Logger
	runID string
}

// RootCmd returns the modelgen root command with all subcommands attached.
func RootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:   "modelgen",
		Short: "Generate SQLAlchemy models from model descriptions",
		Long: `modelgen compiles model descriptions into SQLAlchemy declarative
classes, one <Name>.py module per model.

Descriptions come from the command line, a document file (YAML, JSON,
MessagePack, Atlas HCL or GraphQL SDL) or a live database.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&e.configPath, "config", config.DefaultFile, "Configuration file")
	cmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Log debug output")

	cmd.AddCommand(GenerateCmd(e))
	cmd.AddCommand(LintCmd(e))
	cmd.AddCommand(InspectCmd(e))
	cmd.AddCommand(ServeCmd(e))
	cmd.AddCommand(EnvCmd())
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return RootCmd().ExecuteContext(ctx)
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Verbose(cfg.Log.Level, e.verbose), cfg.Log.Format)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.runID = uuid.NewString()
	e.log = log.With(zap.String("run", e.runID))
	e.log.Debug("starting", zap.String("command", cmd.CommandPath()))
	return nil
}

// genConfig builds the generation config from the loaded configuration,
// with explicitly set flags taking precedence.
func (e *env) genConfig(cmd *cobra.Command, target string) (*gen.Config, error) {
	author := e.cfg.Author
	if cmd.Flags().Changed("author") {
		author, _ = cmd.Flags().GetString("author")
	}
	if author == "" {
		author = currentUser()
	}
	workers := e.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	cfg, err := gen.NewConfig(
		gen.WithAuthor(author),
		gen.WithHeader(e.cfg.Header),
		gen.WithStorage(e.cfg.Storage),
		gen.WithTarget(target),
		gen.WithWorkers(workers),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid generation settings: %w", err)
	}
	return cfg, nil
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
