package sink

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/factory"
	"NetSentinel/internal/notification"
	"log"
)

func init() {
	factory.RegisterSink("log", func(config.SinkDef) (notification.Sink, error) {
		return NewLogSink(log.Default()), nil
	})
}

// LogSink writes one log line per notification.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink writing to logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(events []notification.LoggedNotification) error {
	for _, ev := range events {
		s.logger.Printf("NOTIFICATION [%s] %s", ev.Meta().Timestamp, ev.Summary())
	}
	return nil
}

func (s *LogSink) Close() error { return nil }
