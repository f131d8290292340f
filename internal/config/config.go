package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds the configuration of the flow processing pipeline.
type EngineConfig struct {
	NumWorkers          int      `yaml:"num_workers"`
	SizeOfPacketChannel int      `yaml:"size_of_packet_channel"`
	LocalNetworks       []string `yaml:"local_networks"`
}

// AlerterConfig holds the configuration of the tick evaluator.
type AlerterConfig struct {
	CheckInterval string `yaml:"check_interval"`
	SinkQueueSize int    `yaml:"sink_queue_size"`
}

// Interval parses CheckInterval.
func (c AlerterConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid check_interval for alerter: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("alerter check_interval must be a positive duration")
	}
	return d, nil
}

// FavoriteDef marks a host, or every host of a network, as favorite.
type FavoriteDef struct {
	Address string `yaml:"address"` // IP address or CIDR
	Domain  string `yaml:"domain"`
	Country string `yaml:"country"`
	ASN     string `yaml:"asn"`
}

// ProbeConfig holds the NATS connection used to receive flow records.
type ProbeConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// APIConfig holds the listen addresses of the HTTP API and the gRPC health service.
type APIConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	GRPCListenAddr string `yaml:"grpc_listen_addr"`
}

// ClickHouseConfig holds connection details for ClickHouse.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SMTPConfig holds the configuration for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// NATSSinkConfig holds the subject notifications are published on.
type NATSSinkConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SinkDef defines a single notification sink.
type SinkDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	NATS       NATSSinkConfig   `yaml:"nats"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	SMTP       SMTPConfig       `yaml:"smtp"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Engine        EngineConfig    `yaml:"engine"`
	Alerter       AlerterConfig   `yaml:"alerter"`
	Filters       FilterDef       `yaml:"filters"`
	Notifications NotificationDef `yaml:"notifications"`
	Favorites     []FavoriteDef   `yaml:"favorites"`
	Probe         ProbeConfig     `yaml:"probe"`
	API           APIConfig       `yaml:"api"`
	Sinks         []SinkDef       `yaml:"sinks"`
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.NumWorkers <= 0 {
		c.Engine.NumWorkers = 4
	}
	if c.Engine.SizeOfPacketChannel <= 0 {
		c.Engine.SizeOfPacketChannel = 10000
	}
	if c.Alerter.CheckInterval == "" {
		c.Alerter.CheckInterval = "1s"
	}
	if c.Alerter.SinkQueueSize <= 0 {
		c.Alerter.SinkQueueSize = 64
	}
	if c.Probe.NATSURL == "" {
		c.Probe.NATSURL = "nats://127.0.0.1:4222"
	}
	if c.Probe.Subject == "" {
		c.Probe.Subject = "netsentinel.flows"
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
	for i := range c.Sinks {
		if c.Sinks[i].Type == "nats" && c.Sinks[i].NATS.Subject == "" {
			c.Sinks[i].NATS.Subject = "netsentinel.notifications"
		}
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.Alerter.Interval(); err != nil {
		return err
	}
	if _, err := c.Filters.ToFilters(); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	if _, err := ParseNetworks(c.Engine.LocalNetworks); err != nil {
		return fmt.Errorf("invalid local_networks: %w", err)
	}
	for i, fav := range c.Favorites {
		if _, err := ParseNetwork(fav.Address); err != nil {
			return fmt.Errorf("invalid favorite #%d: %w", i, err)
		}
	}
	return nil
}
