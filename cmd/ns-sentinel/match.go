package main

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/filter"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	matchIP        string
	matchTransport string
	matchPort      uint16
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Check whether a flow would pass the configured filters",
	Long: `Evaluate a candidate flow against the filters of the configuration without
running the engine.

Examples:
  ns-sentinel match --ip ipv4 --transport tcp --port 443
  ns-sentinel match --ip 2606:4700::1111 --transport udp --port 53
`,
	Args: cobra.NoArgs,
	RunE: matchCommand,
}

func init() {
	matchCmd.Flags().StringVar(&matchIP, "ip", "ipv4", "IP version (ipv4, ipv6) or address of the flow")
	matchCmd.Flags().StringVar(&matchTransport, "transport", "tcp", "Transport protocol (tcp, udp)")
	matchCmd.Flags().Uint16Var(&matchPort, "port", 0, "Destination port")
}

func matchCommand(cmd *cobra.Command, args []string) error {
	f, err := cfg.Filters.ToFilters()
	if err != nil {
		return err
	}

	ip, err := config.ParseCandidateIP(matchIP)
	if err != nil {
		return err
	}
	transport, err := config.ParseTransport(matchTransport)
	if err != nil {
		return err
	}

	c := filter.Candidate{IP: ip, Transport: transport, Port: matchPort}
	out := cmd.OutOrStdout()
	if filter.Matches(c, f) {
		fmt.Fprintf(out, "MATCH    %s/%s port %d (%s)\n", ip, transport, matchPort, portLabel(matchPort))
	} else {
		fmt.Fprintf(out, "NO MATCH %s/%s port %d (%s)\n", ip, transport, matchPort, portLabel(matchPort))
	}
	if iv, ok := f.Ports.(filter.Interval); ok && iv.Empty() {
		fmt.Fprintf(out, "warning: port interval %d-%d is empty and matches nothing\n", iv.Low, iv.High)
	}
	return nil
}

func portLabel(port uint16) string {
	if name := filter.ServiceName(port); name != "" {
		return name
	}
	return "unassigned"
}
