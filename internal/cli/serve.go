package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/internal/server"
)

// ServeCmd returns the serve command.
func ServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Start an HTTP service compiling model documents.

Endpoints:
  GET  /healthz       liveness probe
  GET  /v1/formats    supported document formats
  POST /v1/compile    compile a document, ?format=yaml&author=name
  POST /v1/lint       lint a document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.genConfig(cmd, ".")
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := server.New(cfg, e.log, server.WithMaxBody(e.cfg.Server.MaxBodyBytes))
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().String("author", "", "Default module author")
	cmd.Flags().Int("workers", 0, "Models compiled in parallel per request")
	return cmd
}
