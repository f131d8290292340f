package main

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/engine/manager"
	"NetSentinel/internal/engine/protocol"
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"NetSentinel/internal/probe"
	"NetSentinel/pkg/pcap"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var replayPublish bool

var replayCmd = &cobra.Command{
	Use:   "replay <pcap-file>",
	Short: "Evaluate a pcap file, or publish its flows to NATS",
	Long: `Read a pcap file and run every TCP/UDP flow through the engine. When the file
is exhausted the engine performs its final evaluation and the notification log is
printed.

With --publish the flows are published on the probe subject instead, for a running
'ns-sentinel run' to consume.`,
	Args: cobra.ExactArgs(1),
	RunE: replayCommand,
}

func init() {
	replayCmd.Flags().BoolVar(&replayPublish, "publish", false, "Publish flows to NATS instead of evaluating them locally")
}

func replayCommand(cmd *cobra.Command, args []string) error {
	pcapFilePath := args[0]

	localNets, err := config.ParseNetworks(cfg.Engine.LocalNetworks)
	if err != nil {
		return err
	}
	classifier := protocol.NewClassifier(localNets)

	pcapReader, err := pcap.NewReader(pcapFilePath)
	if err != nil {
		return fmt.Errorf("failed to open pcap file: %w", err)
	}
	defer pcapReader.Close()
	log.Printf("Reading packets from '%s'...", pcapFilePath)

	flows := make(chan *model.PacketInfo, cfg.Engine.SizeOfPacketChannel)
	go pcapReader.ReadPackets(flows, classifier)

	if replayPublish {
		return publishFlows(flows)
	}

	interval, err := cfg.Alerter.Interval()
	if err != nil {
		return err
	}
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}

	count := replayFlows(mgr, flows, interval)
	log.Printf("Finished reading %d flows from pcap file.", count)

	printLog(cmd.OutOrStdout(), mgr.Log().Snapshot())
	return nil
}

// replayFlows evaluates flows against capture time. Each tick covers one
// interval of packet timestamps and is stamped with the end of that
// interval. The manager is stopped when flows is exhausted.
func replayFlows(mgr *manager.Manager, flows <-chan *model.PacketInfo, interval time.Duration) int {
	var windowEnd time.Time
	mgr.StartReplay(func() time.Time { return windowEnd })

	count := 0
	for info := range flows {
		if windowEnd.IsZero() {
			windowEnd = info.Timestamp.Truncate(interval).Add(interval)
		}
		if !info.Timestamp.Before(windowEnd) {
			// Windows without traffic cannot emit anything, so skip them.
			mgr.Tick()
			windowEnd = info.Timestamp.Truncate(interval).Add(interval)
		}
		mgr.Process(info)
		count++
	}

	// The final evaluation covers the last window.
	mgr.Stop()
	return count
}

func publishFlows(flows <-chan *model.PacketInfo) error {
	publisher, err := probe.NewPublisher(cfg.Probe)
	if err != nil {
		// Drain so the reader goroutine can finish.
		for range flows {
		}
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	defer publisher.Close()

	count, failed := 0, 0
	for info := range flows {
		if err := publisher.Publish(info); err != nil {
			failed++
			continue
		}
		count++
	}
	log.Printf("Published %d flows to '%s' (%d failed).", count, cfg.Probe.Subject, failed)
	return nil
}

func printLog(w io.Writer, snap notification.Snapshot) {
	fmt.Fprintf(w, "%d notification(s), %d emitted in total\n", len(snap.Notifications), snap.TotalEmitted)
	if snap.Truncated() {
		fmt.Fprintf(w, "showing the last %d\n", notification.Capacity)
	}
	for _, ev := range snap.Notifications {
		fmt.Fprintf(w, "%s  %s\n", ev.Meta().Timestamp, ev.Summary())
	}
}
