package factory

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/notification"
	"fmt"
	"log"
	"sort"
)

// SinkFactory creates a notification sink from its definition.
type SinkFactory func(def config.SinkDef) (notification.Sink, error)

// registry holds the mapping of sink types to their factory functions.
var registry = make(map[string]SinkFactory)

// RegisterSink registers a new sink type with its factory function.
func RegisterSink(name string, factory SinkFactory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("sink type '%s' already registered", name))
	}
	registry[name] = factory
}

// Types returns the registered sink types, sorted.
func Types() []string {
	types := make([]string, 0, len(registry))
	for name := range registry {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Create builds every enabled sink of the config. Sinks created before a
// failure are closed again.
func Create(cfg *config.Config) ([]notification.Sink, error) {
	var sinks []notification.Sink

	for _, def := range cfg.Sinks {
		if !def.Enabled {
			continue
		}
		log.Printf("Creating notification sink of type: '%s'\n", def.Type)

		factory, ok := registry[def.Type]
		if !ok {
			closeAll(sinks)
			return nil, fmt.Errorf("unknown sink type: '%s'", def.Type)
		}

		sink, err := factory(def)
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("error creating sink type '%s': %w", def.Type, err)
		}

		sinks = append(sinks, sink)
	}

	return sinks, nil
}

func closeAll(sinks []notification.Sink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			log.Printf("Error closing sink %s: %v", s.Name(), err)
		}
	}
}
