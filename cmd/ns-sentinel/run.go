package main

import (
	"NetSentinel/internal/api"
	"NetSentinel/internal/engine/manager"
	"NetSentinel/internal/engine/streamaggregator"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine with NATS ingest and the HTTP API",
	Long: `Run the engine until SIGINT or SIGTERM.

Flows are consumed from the configured NATS subject when probe.enabled is set.
The HTTP API serves notifications, filters, settings and metrics; the gRPC health
service is started when api.grpc_listen_addr is set.`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

func runCommand(cmd *cobra.Command, args []string) error {
	log.Println("Starting ns-sentinel...")

	// 1. Initialize the engine
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	mgr.Start()

	// 2. Flow ingest
	var streamAgg *streamaggregator.StreamAggregator
	if cfg.Probe.Enabled {
		streamAgg = streamaggregator.NewStreamAggregator(cfg.Probe, mgr)
		if err := streamAgg.Start(); err != nil {
			mgr.Stop()
			return err
		}
	} else {
		log.Println("Probe ingest disabled, no flows will be received from NATS.")
	}

	// 3. HTTP API and gRPC health
	server := api.NewServer(cfg.API.ListenAddr, mgr)
	if err := server.Start(); err != nil {
		if streamAgg != nil {
			streamAgg.Stop()
		}
		mgr.Stop()
		return err
	}
	var health *api.HealthServer
	if cfg.API.GRPCListenAddr != "" {
		health = api.NewHealthServer()
		if err := health.ListenAndServe(cfg.API.GRPCListenAddr); err != nil {
			log.Printf("gRPC health server disabled: %v", err)
			health = nil
		}
	}

	// 4. Wait for a shutdown signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, stopping...")

	if health != nil {
		health.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("API server forced to shutdown: %v", err)
	}
	if streamAgg != nil {
		streamAgg.Stop()
	}
	mgr.Stop()

	log.Println("Shutdown complete.")
	return nil
}
