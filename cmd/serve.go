package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deskrag/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ticket-answering API over HTTP",
	Long: `Run the HTTP server that answers support tickets.

The knowledge-base indexes are built eagerly at startup so the first
request does not pay the embedding cost. The server shuts down
gracefully on SIGINT or SIGTERM.

Endpoints:
  POST /api/answer   - answer a ticket ({"subject", "body", "user_id", "condense"})
  GET  /api/health   - liveness check`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides the configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, cfg, cleanup, err := buildResponder(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := r.Warm(ctx); err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	return server.New(r, addr).Start(ctx)
}
