package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freeresumetools/internal/bootstrap"
	"freeresumetools/internal/shared/config"
	"freeresumetools/internal/shared/server"
	"freeresumetools/internal/shared/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{"addr": addr, "object_store": cfg.ObjectStoreType})
	return app.Router.Run(addr)
}
