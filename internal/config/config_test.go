package config

import (
	"NetSentinel/internal/filter"
	"NetSentinel/internal/model"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
engine:
  num_workers: 2
  local_networks: ["192.168.0.0/16", "fe80::/10"]
alerter:
  check_interval: 500ms
filters:
  ip: ipv4
  transport: tcp
  ports:
    kind: interval
    low: 1000
    high: 2000
notifications:
  packets_threshold: 100
  notify_on_favorite: true
favorites:
  - address: 1.1.1.1
    domain: one.one.one.one
    country: AU
    asn: CLOUDFLARENET
  - address: 9.9.9.0/24
    domain: quad9
sinks:
  - type: nats
    enabled: true
`

func TestLoadConfig(t *testing.T) {
	// 1. Write the sample to a temporary file
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	// 2. Load it
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// 3. Verify explicit values and defaults
	if cfg.Engine.NumWorkers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Engine.NumWorkers)
	}
	if cfg.Engine.SizeOfPacketChannel != 10000 {
		t.Errorf("expected default channel size, got %d", cfg.Engine.SizeOfPacketChannel)
	}
	interval, err := cfg.Alerter.Interval()
	if err != nil || interval != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %v (%v)", interval, err)
	}
	if cfg.Sinks[0].NATS.Subject != "netsentinel.notifications" {
		t.Errorf("expected default nats sink subject, got %q", cfg.Sinks[0].NATS.Subject)
	}
	if len(cfg.Favorites) != 2 || cfg.Favorites[0].ASN != "CLOUDFLARENET" {
		t.Errorf("unexpected favorites: %+v", cfg.Favorites)
	}

	f, err := cfg.Filters.ToFilters()
	if err != nil {
		t.Fatalf("ToFilters failed: %v", err)
	}
	if f.IP != model.IPv4 || f.Transport != model.TCP {
		t.Errorf("unexpected filters: %+v", f)
	}
	if iv, ok := f.Ports.(filter.Interval); !ok || iv.Low != 1000 || iv.High != 2000 {
		t.Errorf("expected interval 1000-2000, got %#v", f.Ports)
	}

	s := cfg.Notifications.ToSettings()
	if s.Packets.Threshold == nil || *s.Packets.Threshold != 100 {
		t.Errorf("expected packets threshold 100, got %v", s.Packets.Threshold)
	}
	if s.Bytes.Threshold != nil {
		t.Errorf("expected bytes notifications disabled")
	}
	if !s.Favorite.NotifyOnFavorite {
		t.Errorf("expected favorite notifications enabled")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"interval":  "alerter:\n  check_interval: soon\n",
		"negative":  "alerter:\n  check_interval: -1s\n",
		"ip":        "filters:\n  ip: ipv5\n",
		"port kind": "filters:\n  ports:\n    kind: range\n",
		"network":   "engine:\n  local_networks: [\"not-a-net\"]\n",
		"favorite":  "favorites:\n  - address: 300.1.1.1\n",
		"yaml":      "engine: [",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	f, _ := cfg.Filters.ToFilters()
	if iv, ok := f.Ports.(filter.Interval); !ok || iv.Low != 0 || iv.High != 65535 {
		t.Errorf("expected full interval by default, got %#v", f.Ports)
	}
	if cfg.Notifications.ToSettings().AnyEnabled() {
		t.Errorf("no notification should be enabled by default")
	}
}

func TestEmptyIntervalIsAccepted(t *testing.T) {
	cfg, err := Parse([]byte("filters:\n  ports:\n    kind: interval\n    low: 9000\n    high: 80\n"))
	if err != nil {
		t.Fatalf("an inverted interval is a valid configuration: %v", err)
	}
	f, _ := cfg.Filters.ToFilters()
	if iv := f.Ports.(filter.Interval); !iv.Empty() {
		t.Errorf("expected an empty interval, got %+v", iv)
	}
}

func TestFilterDefRoundTrip(t *testing.T) {
	filters := []filter.Filters{
		filter.Default(),
		{IP: model.IPv6, Transport: model.UDP, Ports: filter.Single{Port: 53}},
		{IP: model.IPv4, Ports: filter.NewWellKnown(80, 443)},
		{Ports: filter.Interval{Low: 0, High: 0}},
		{Ports: filter.NewWellKnown()},
	}
	for _, f := range filters {
		back, err := FilterDefOf(f).ToFilters()
		if err != nil {
			t.Fatalf("ToFilters(%+v) failed: %v", f, err)
		}
		if back.IP != f.IP || back.Transport != f.Transport || back.Ports.Kind() != f.Ports.Kind() {
			t.Errorf("round trip changed %+v into %+v", f, back)
		}
	}

	wk := FilterDefOf(filter.Filters{Ports: filter.NewWellKnown(443, 80)})
	if got := wk.Ports.WellKnown; len(got) != 2 || got[0] != 80 || got[1] != 443 {
		t.Errorf("expected sorted well-known ports, got %v", got)
	}

	// An emptied set stays empty instead of turning into the built-in one.
	back, err := FilterDefOf(filter.Filters{Ports: filter.NewWellKnown()}).ToFilters()
	if err != nil {
		t.Fatalf("ToFilters failed: %v", err)
	}
	if n := back.Ports.(filter.WellKnown).Len(); n != 0 {
		t.Errorf("expected an empty well-known set, got %d ports", n)
	}
}

func TestPortDef_WellKnownBuiltin(t *testing.T) {
	builtin, err := PortDef{Kind: "well_known", Builtin: true}.ToPortFilter()
	if err != nil {
		t.Fatalf("ToPortFilter failed: %v", err)
	}
	if got, want := builtin.(filter.WellKnown).Len(), filter.WellKnownPorts().Len(); got != want {
		t.Errorf("expected the built-in set of %d ports, got %d", want, got)
	}

	empty, err := PortDef{Kind: "well_known"}.ToPortFilter()
	if err != nil {
		t.Fatalf("ToPortFilter failed: %v", err)
	}
	if empty.(filter.WellKnown).Len() != 0 {
		t.Errorf("expected an empty set without builtin, got %v", empty.(filter.WellKnown).Ports())
	}

	if _, err := (PortDef{Kind: "well_known", Builtin: true, WellKnown: []uint16{80}}).ToPortFilter(); err == nil {
		t.Error("expected an error for builtin with an explicit list")
	}

	cfg, err := Parse([]byte("filters:\n  ports:\n    kind: well_known\n    builtin: true\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f, _ := cfg.Filters.ToFilters()
	if f.Ports.(filter.WellKnown).Len() == 0 {
		t.Error("expected builtin to be read from YAML")
	}
}

func TestParseNetwork(t *testing.T) {
	n, err := ParseNetwork("10.1.2.3")
	if err != nil {
		t.Fatalf("ParseNetwork failed: %v", err)
	}
	if ones, _ := n.Mask.Size(); ones != 32 {
		t.Errorf("expected a /32 host network, got /%d", ones)
	}
	n, err = ParseNetwork("2001:db8::1")
	if err != nil {
		t.Fatalf("ParseNetwork failed: %v", err)
	}
	if ones, _ := n.Mask.Size(); ones != 128 {
		t.Errorf("expected a /128 host network, got /%d", ones)
	}
	if _, err := ParseNetwork("10.0.0.0/33"); err == nil || !strings.Contains(err.Error(), "invalid network") {
		t.Errorf("expected an invalid network error, got %v", err)
	}
}

func TestParseCandidateIP(t *testing.T) {
	cases := map[string]model.IPVersion{
		"":                 model.AnyIP,
		"ipv4":             model.IPv4,
		"IPv6":             model.IPv6,
		"192.0.2.1":        model.IPv4,
		"2001:db8::1":      model.IPv6,
		"::ffff:192.0.2.1": model.IPv4,
	}
	for in, want := range cases {
		got, err := ParseCandidateIP(in)
		if err != nil || got != want {
			t.Errorf("ParseCandidateIP(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseCandidateIP("999.1.1.1"); err == nil {
		t.Error("expected an error for an invalid address")
	}
}

func TestShippedConfig(t *testing.T) {
	cfg, err := LoadConfig("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("the shipped configuration does not load: %v", err)
	}
	if len(cfg.Sinks) != 4 || !cfg.Sinks[0].Enabled || cfg.Sinks[0].Type != "log" {
		t.Errorf("unexpected sinks: %+v", cfg.Sinks)
	}
	if cfg.API.GRPCListenAddr != ":9090" {
		t.Errorf("unexpected grpc address %q", cfg.API.GRPCListenAddr)
	}
}
