package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsantana/radarbdr/internal/api"
	"github.com/vsantana/radarbdr/internal/api/handlers"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia o servidor da API REST",
	Long: `Inicia o servidor HTTP com os endpoints de varredura.

Endpoints:
  GET  /health              - Health check
  GET  /api/universe        - Universo de BDRs resolvido
  POST /api/scan            - Executa uma varredura
  GET  /api/signals/latest  - Sinais da última varredura arquivada
  GET  /api/scans/recent    - Varreduras recentes
  GET  /ws/signals          - Resultados ao vivo via websocket

Example:
  go run ./cmd/radar api
  go run ./cmd/radar api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "porta do servidor (default: PORT do ambiente)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	log := logger.New(cfg)

	d, err := buildDeps(cfg, log)
	if err != nil {
		return err
	}
	defer d.close()

	hub := api.NewHub(log)

	var archive handlers.ScanArchive
	if d.archive != nil {
		archive = d.archive
	}
	radarHandler := handlers.NewRadarHandler(d.pipeline, d.brapi, archive, hub, scanDefaults(cfg), log)

	router := api.NewRouter(radarHandler, hub, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
