package main

import (
	"NetSentinel/internal/config"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string

	// Loaded config
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ns-sentinel",
	Short: "NetSentinel - traffic classification and notification engine",
	Long: `ns-sentinel filters the flows delivered by a capture probe, aggregates them per
tick and raises notifications when traffic thresholds are exceeded or a favorite
host transmits.

Examples:
  ns-sentinel run                          # Engine + NATS ingest + HTTP API
  ns-sentinel replay capture.pcap          # Evaluate a capture offline
  ns-sentinel replay --publish capture.pcap  # Feed a capture to a running engine
  ns-sentinel match --ip 1.1.1.1 --transport tcp --port 443
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath == "" {
			cfg = config.Default()
			log.Println("No configuration file given, using defaults.")
			return nil
		}
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Println("Configuration loaded successfully.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the YAML configuration (empty for defaults)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(matchCmd)
}
