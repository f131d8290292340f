package sink

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/factory"
	"NetSentinel/internal/notification"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

func init() {
	factory.RegisterSink("nats", func(def config.SinkDef) (notification.Sink, error) {
		return NewNATSSink(def.NATS)
	})
}

// NATSSink publishes every notification as a JSON record on a subject.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to the configured NATS server.
func NewNATSSink(cfg config.NATSSinkConfig) (*NATSSink, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("netsentinel-notifications"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	log.Printf("Connected to NATS server at %s for notifications on '%s'", url, cfg.Subject)
	return &NATSSink{nc: nc, subject: cfg.Subject}, nil
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Write(events []notification.LoggedNotification) error {
	for _, ev := range events {
		data, err := json.Marshal(notification.RecordOf(ev))
		if err != nil {
			return fmt.Errorf("failed to encode notification %s: %w", ev.Meta().ID, err)
		}
		if err := s.nc.Publish(s.subject, data); err != nil {
			return fmt.Errorf("failed to publish notification %s: %w", ev.Meta().ID, err)
		}
	}
	return nil
}

// Close drains and closes the NATS connection.
func (s *NATSSink) Close() error {
	if s.nc == nil {
		return nil
	}
	if err := s.nc.Drain(); err != nil {
		return err
	}
	log.Println("NATS notification connection drained and closed.")
	return nil
}
