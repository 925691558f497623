package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reviewqueue/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review UI and JSON API",
	Long: `Start the HTTP server with the review UI at / and the JSON API used by it.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	svc, err := newService("", cfg.Airtable.Typecast)
	if err != nil {
		return err
	}

	server.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("base", cfg.Airtable.BaseID).
		Str("table", cfg.Airtable.Table).
		Str("view", cfg.Airtable.View).
		Str("next_filter", cfg.Review.NextFilter).
		Msg("Starting review server")

	if err := server.New(cfg, svc, logger).Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
