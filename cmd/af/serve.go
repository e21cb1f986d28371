package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/architectflow/internal/auth"
	"github.com/zulandar/architectflow/internal/config"
	"github.com/zulandar/architectflow/internal/dashboard"
	"github.com/zulandar/architectflow/internal/db"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ArchitectFlow dashboard server",
		Long:  "Launches the web dashboard and JSON API over the configured storage backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "architectflow.yaml", "path to config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}

	gormDB, err := db.Open(cfg)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		// Stay up so clients get a 503 instead of connection refused.
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: hosted backend selected but no database URL is configured; API requests will be answered 503")
		gormDB = nil
	case err != nil:
		return err
	default:
		if err := db.AutoMigrate(gormDB); err != nil {
			return err
		}
	}

	backend := "embedded (" + cfg.Database.Path + ")"
	if cfg.Hosted() {
		backend = "hosted"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Storage backend: %s\n", backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:     gormDB,
		Config: cfg,
		Resolver: auth.NewResolver(auth.Options{
			TestUserID: cfg.Auth.TestUserID,
			Fallback:   cfg.Auth.DefaultUserID,
		}),
		Port: cfg.Port,
		Out:  cmd.OutOrStdout(),
	})
}
