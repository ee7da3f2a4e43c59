package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/app"
	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openCore loads the environment config and hydrates the dashboard. The
// caller must Close the result.
func openCore(ctx context.Context) (*app.Core, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	core, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing startpage: %w", err)
	}
	return core, nil
}

var rootCmd = &cobra.Command{
	Use:          "startpage",
	Short:        "Self-hosted browser start page backend",
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sync (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("❌ startpage failed to start", logger.Error(err))
		return err
	}
	return a.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd, importCmd, pullCmd, pushCmd, statusCmd, remoteCmd, wallpapersCmd)
}
