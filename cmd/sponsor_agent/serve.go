package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/sponsor-finder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the sponsor evaluation agent, website extraction and stored evaluations.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	_ = settings.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx, optionalController)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := newServer(ctx, a)
	if err != nil {
		return err
	}
	return srv.Start()
}

// newServer wires the app into the HTTP server, opening the store when
// persistence is configured.
func newServer(ctx context.Context, a *app) (*server.Server, error) {
	cfg := server.Config{
		Port:       a.cfg.Port,
		Controller: a.controller,
		Source:     a.source,
		Settings:   a.cfg,
		Logger:     a.logger,
	}

	database, err := openStore(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if database != nil {
		cfg.Store = database
		cfg.OnShutdown = append(cfg.OnShutdown, database.Close)
	}

	return server.New(cfg), nil
}
