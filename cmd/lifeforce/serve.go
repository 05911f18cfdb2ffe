package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lifeforce/internal/mcp"
	"github.com/lifeforce/internal/storage"
	"github.com/lifeforce/internal/web"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "web"},
	Short:   "Run the web calculator and tool endpoint",
	Long: `Serve the three-step calculator in the browser. The same port answers
JSON tool calls at /mcp and single calculations at /api/calculate.

The server runs until interrupted (Ctrl+C).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		base, err := profileState(cmd)
		if err != nil {
			return err
		}

		db, err := storage.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		ui := web.NewHandler(web.Options{
			Store:  db,
			Logger: logger,
			Base:   base,
			Theme:  cfg.Theme,
		})

		server := mcp.NewServer(port, logger, cfg.RateLimitPerMin, base, ui)
		server.OnShutdown(func() {
			closeStore(db, ui.SessionID(), logger)
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Life Force running on http://localhost:%d\n", port)
		fmt.Fprintf(cmd.OutOrStdout(), "Tools: http://localhost:%d/mcp\n", port)
		fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n\n")

		logger.Info("serve",
			zap.Int("port", port),
			zap.String("db", cfg.DatabasePath),
			zap.String("session", ui.SessionID()),
			zap.Int("rate_limit_per_min", cfg.RateLimitPerMin))

		return server.Start(ctx)
	},
}

// closeStore drops the live session so a file-backed database keeps none
// past this run, then closes it.
func closeStore(db *storage.Database, sessionID string, logger *zap.Logger) {
	if err := db.DeleteSession(sessionID); err != nil {
		logger.Warn("delete session", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
}
