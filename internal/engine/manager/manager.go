package manager

import (
	"NetSentinel/internal/alerter"
	"NetSentinel/internal/config"
	"NetSentinel/internal/engine/flowaggregator"
	"NetSentinel/internal/engine/hosts"
	"NetSentinel/internal/factory"
	"NetSentinel/internal/filter"
	"NetSentinel/internal/metrics"
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"NetSentinel/internal/sink"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Manager wires the flow pipeline: a worker pool filters incoming flows and
// feeds the aggregator, and the alerter turns every tick into notifications.
type Manager struct {
	aggregator *flowaggregator.Aggregator
	alerter    *alerter.Alerter
	log        *notification.Log
	resolver   model.HostResolver
	metrics    *metrics.Metrics

	// Staged values are written by SetFilters/SetSettings and promoted at
	// the next tick boundary.
	pendingFilters  atomic.Pointer[filter.Filters]
	activeFilters   atomic.Pointer[filter.Filters]
	pendingSettings atomic.Pointer[notification.Settings]

	// Worker pool for concurrent flow processing
	packetChannel chan *model.PacketInfo
	numWorkers    int
	workerWg      sync.WaitGroup
	stopOnce      sync.Once
}

// NewManager creates a Manager from the configuration. Sinks come from the
// enabled sink definitions; without any, notifications go to the standard logger.
func NewManager(cfg *config.Config) (*Manager, error) {
	filters, err := cfg.Filters.ToFilters()
	if err != nil {
		return nil, fmt.Errorf("invalid filters: %w", err)
	}
	settings := cfg.Notifications.ToSettings()

	resolver, err := hosts.NewStaticResolver(cfg.Favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to build favorite hosts: %w", err)
	}

	sinks, err := factory.Create(cfg)
	if err != nil {
		return nil, err
	}
	if len(sinks) == 0 {
		sinks = []notification.Sink{sink.NewLogSink(log.Default())}
	}

	m := &Manager{
		aggregator:    flowaggregator.NewAggregator(),
		log:           notification.NewLog(),
		resolver:      resolver,
		metrics:       metrics.New(),
		packetChannel: make(chan *model.PacketInfo, cfg.Engine.SizeOfPacketChannel),
		numWorkers:    cfg.Engine.NumWorkers,
	}
	if m.numWorkers <= 0 {
		m.numWorkers = 1
	}
	m.log.SetObserver(m.metrics.ObserveLog)
	m.pendingFilters.Store(&filters)
	m.activeFilters.Store(&filters)
	m.pendingSettings.Store(&settings)

	m.alerter, err = alerter.NewAlerter(cfg.Alerter, m.aggregator, m.commit, m.log, sinks, m.metrics)
	if err != nil {
		for _, s := range sinks {
			s.Close()
		}
		return nil, fmt.Errorf("failed to create alerter: %w", err)
	}
	log.Printf("Manager initialized with %d favorite host(s) and %d sink(s).", resolver.Len(), len(sinks))
	return m, nil
}

// commit promotes the staged configuration. The alerter calls it once per
// tick, after draining the counters.
func (m *Manager) commit() notification.Settings {
	m.activeFilters.Store(m.pendingFilters.Load())
	return m.pendingSettings.Load().Clone()
}

// Start begins the worker pool and the alerter.
func (m *Manager) Start() {
	m.alerter.Start()

	m.workerWg.Add(m.numWorkers)
	for i := 0; i < m.numWorkers; i++ {
		go m.worker()
	}
	log.Printf("Manager started with %d workers.", m.numWorkers)
}

// StartReplay prepares the manager for a caller-driven replay. No workers or
// ticker are started: flows go through Process and evaluations through
// Tick, both on the caller's goroutine, and now stamps every tick.
func (m *Manager) StartReplay(now func() time.Time) {
	m.alerter.SetClock(now)
	m.alerter.StartDispatch()
	log.Println("Manager started in replay mode.")
}

// Stop gracefully shuts down the manager. Flows already submitted are
// processed and evaluated one last time before the sinks are closed.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		log.Println("Manager stopping...")
		// 1. Stop accepting new flows.
		close(m.packetChannel)

		// 2. Wait for all workers to finish processing buffered flows.
		log.Println("Waiting for workers to finish...")
		m.workerWg.Wait()

		// 3. Final evaluation and sink shutdown.
		m.alerter.Stop()

		log.Println("Manager stopped.")
	})
}

func (m *Manager) worker() {
	defer m.workerWg.Done()
	for info := range m.packetChannel {
		m.Process(info)
	}
}

// Process filters one flow and accounts it. Workers call it for every
// submitted flow; replays call it directly.
func (m *Manager) Process(info *model.PacketInfo) {
	if !filter.MatchesPacket(info, *m.activeFilters.Load()) {
		m.metrics.FlowRejected()
		return
	}
	m.metrics.FlowAccepted()
	m.aggregator.Accept(info)

	if host, ok := m.resolver.Resolve(info.RemoteIP()); ok {
		m.aggregator.ObserveFavorite(host, info)
	}
}

// InputChannel is where the capture side delivers flows.
func (m *Manager) InputChannel() chan<- *model.PacketInfo {
	return m.packetChannel
}

// Submit delivers one flow, blocking while the channel is full.
func (m *Manager) Submit(info *model.PacketInfo) {
	m.packetChannel <- info
}

// Tick forces an evaluation outside the ticker schedule.
func (m *Manager) Tick() []notification.LoggedNotification {
	return m.alerter.Tick()
}

// SetFilters stages f; it takes effect at the next tick boundary.
func (m *Manager) SetFilters(f filter.Filters) {
	if f.Ports == nil {
		f.Ports = filter.Default().Ports
	}
	m.pendingFilters.Store(&f)
}

// Filters returns the most recently set filters.
func (m *Manager) Filters() filter.Filters {
	return *m.pendingFilters.Load()
}

// ActiveFilters returns the filters applied to flows right now.
func (m *Manager) ActiveFilters() filter.Filters {
	return *m.activeFilters.Load()
}

// SetSettings stages s; it takes effect at the next tick boundary.
func (m *Manager) SetSettings(s notification.Settings) {
	s = s.Clone()
	m.pendingSettings.Store(&s)
}

// Settings returns the most recently set notification settings.
func (m *Manager) Settings() notification.Settings {
	return m.pendingSettings.Load().Clone()
}

// Log returns the notification log.
func (m *Manager) Log() *notification.Log {
	return m.log
}

// Metrics returns the engine metrics.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}
