package main

import (
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over an HTTP JSON API",
	Long: `Start an HTTP server exposing the projection engine.

Routes:
  GET  /healthz
  POST /api/v1/projections   project a parameter set
  POST /api/v1/montecarlo    run a Monte Carlo simulation
  POST /api/v1/sensitivity   sweep one parameter
  GET  /api/v1/runs          list recorded runs (history must be enabled)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = settings.Server.Addr
	}

	recorder, err := openRecorder(false)
	if err != nil {
		return err
	}
	defer recorder.Close()

	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: settings.Server.ShutdownTimeout.Duration,
		Dependencies: server.Dependencies{
			Engine:           newEngine(),
			Recorder:         recorder,
			Simulations:      settings.Simulation.Runs,
			DeviationPercent: settings.Simulation.DeviationPercent,
		},
	})
	return api.Start()
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}
