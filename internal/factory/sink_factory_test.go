package factory

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/notification"
	"errors"
	"testing"
)

type stubSink struct {
	name   string
	closed *int
}

func (s stubSink) Name() string { return s.name }
func (s stubSink) Write([]notification.LoggedNotification) error { return nil }
func (s stubSink) Close() error {
	*s.closed++
	return nil
}

func TestCreate(t *testing.T) {
	closed := 0
	RegisterSink("stub-ok", func(def config.SinkDef) (notification.Sink, error) {
		return stubSink{name: def.Type, closed: &closed}, nil
	})
	RegisterSink("stub-fail", func(config.SinkDef) (notification.Sink, error) {
		return nil, errors.New("boom")
	})

	// 1. Disabled sinks are skipped
	sinks, err := Create(&config.Config{Sinks: []config.SinkDef{
		{Type: "stub-ok", Enabled: true},
		{Type: "stub-fail", Enabled: false},
	}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name() != "stub-ok" {
		t.Fatalf("unexpected sinks: %v", sinks)
	}

	// 2. A failing factory closes what was already built
	_, err = Create(&config.Config{Sinks: []config.SinkDef{
		{Type: "stub-ok", Enabled: true},
		{Type: "stub-fail", Enabled: true},
	}})
	if err == nil {
		t.Fatal("expected an error from the failing factory")
	}
	if closed != 1 {
		t.Errorf("expected the first sink to be closed, got %d closes", closed)
	}

	// 3. Unknown types are rejected
	if _, err := Create(&config.Config{Sinks: []config.SinkDef{{Type: "carrier-pigeon", Enabled: true}}}); err == nil {
		t.Error("expected an error for an unknown sink type")
	}
}

func TestRegisterSink_Duplicate(t *testing.T) {
	RegisterSink("stub-dup", func(config.SinkDef) (notification.Sink, error) { return nil, nil })
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	RegisterSink("stub-dup", func(config.SinkDef) (notification.Sink, error) { return nil, nil })
}
