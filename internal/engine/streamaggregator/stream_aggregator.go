package streamaggregator

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/model"
	"NetSentinel/internal/probe"
	"fmt"
	"log"
	"sync"
)

// Sink receives the decoded flows. *manager.Manager satisfies it.
type Sink interface {
	Submit(info *model.PacketInfo)
}

// StreamAggregator consumes flow records from NATS and forwards them to the engine.
type StreamAggregator struct {
	cfg        config.ProbeConfig
	sink       Sink
	subscriber *probe.Subscriber

	mu      sync.RWMutex
	stopped bool
}

// NewStreamAggregator creates a new real-time stream aggregator.
func NewStreamAggregator(cfg config.ProbeConfig, sink Sink) *StreamAggregator {
	return &StreamAggregator{cfg: cfg, sink: sink}
}

// Start connects to NATS and begins forwarding messages.
func (sa *StreamAggregator) Start() error {
	log.Println("StreamAggregator starting for nats: ", sa.cfg.NATSURL)
	sub, err := probe.NewSubscriber(sa.cfg)
	if err != nil {
		return fmt.Errorf("StreamAggregator failed to connect to NATS: %w", err)
	}
	if err := sub.Start(sa.handle); err != nil {
		sub.Close()
		return fmt.Errorf("StreamAggregator failed to subscribe: %w", err)
	}
	sa.subscriber = sub
	return nil
}

// Stop unsubscribes. After Stop returns no more flows reach the sink, so the
// engine can be stopped safely.
func (sa *StreamAggregator) Stop() {
	log.Println("StreamAggregator stopping...")
	if sa.subscriber != nil {
		sa.subscriber.Close()
	}
	sa.mu.Lock()
	sa.stopped = true
	sa.mu.Unlock()
	log.Println("StreamAggregator stopped.")
}

func (sa *StreamAggregator) handle(info *model.PacketInfo) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	if sa.stopped {
		return
	}
	sa.sink.Submit(info)
}
