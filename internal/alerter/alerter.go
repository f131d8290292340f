package alerter

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/metrics"
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"log"
	"sync"
	"time"
)

// Source is the live traffic state drained once per tick.
type Source interface {
	DrainAndReset() model.RuntimeCounters
	DrainFavorites() []model.HostActivity
}

// SettingsFunc returns the settings in effect for the tick being evaluated.
// It is called once per tick, at the tick boundary.
type SettingsFunc func() notification.Settings

// Alerter evaluates the aggregated traffic at a fixed interval, appends the
// resulting notifications to the log and hands them to the sinks.
type Alerter struct {
	source        Source
	settings      SettingsFunc
	log           *notification.Log
	sinks         []notification.Sink
	metrics       *metrics.Metrics
	checkInterval time.Duration
	now           func() time.Time

	tickMu  sync.Mutex
	queue   chan []notification.LoggedNotification
	closed  bool
	started bool

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	sinkWg   sync.WaitGroup
}

// NewAlerter creates a new Alerter instance.
func NewAlerter(cfg config.AlerterConfig, source Source, settings SettingsFunc, nlog *notification.Log, sinks []notification.Sink, m *metrics.Metrics) (*Alerter, error) {
	interval, err := cfg.Interval()
	if err != nil {
		return nil, err
	}
	queueSize := cfg.SinkQueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Alerter{
		source:        source,
		settings:      settings,
		log:           nlog,
		sinks:         sinks,
		metrics:       m,
		checkInterval: interval,
		now:           time.Now,
		queue:         make(chan []notification.LoggedNotification, queueSize),
		stopChan:      make(chan struct{}),
	}, nil
}

// SetClock replaces the clock that stamps notifications. Replays use it to
// evaluate against capture time instead of wall time.
func (a *Alerter) SetClock(now func() time.Time) {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()
	a.now = now
}

// Start launches the tick loop and the sink dispatcher.
func (a *Alerter) Start() {
	a.StartDispatch()

	a.wg.Add(1)
	go a.run()
	log.Printf("Alerter started with check interval %s and %d sink(s)", a.checkInterval, len(a.sinks))
}

// StartDispatch launches only the sink dispatcher. Ticks are then driven by
// the caller through Tick.
func (a *Alerter) StartDispatch() {
	a.tickMu.Lock()
	a.started = true
	a.tickMu.Unlock()

	a.sinkWg.Add(1)
	go func() {
		defer a.sinkWg.Done()
		a.runSinks()
	}()
}

func (a *Alerter) run() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Tick()
		case <-a.stopChan:
			return
		}
	}
}

// Stop ends the tick loop, runs one final evaluation so that counters
// accepted before shutdown are not lost, flushes the sinks and closes them.
func (a *Alerter) Stop() {
	a.stopOnce.Do(func() {
		log.Println("Stopping Alerter...")
		close(a.stopChan)
		a.wg.Wait()

		a.Tick()

		a.tickMu.Lock()
		a.closed = true
		close(a.queue)
		started := a.started
		a.tickMu.Unlock()

		if started {
			a.sinkWg.Wait()
		} else {
			a.runSinks()
		}

		for _, s := range a.sinks {
			if err := s.Close(); err != nil {
				log.Printf("Error closing sink %s: %v", s.Name(), err)
			}
		}
		log.Println("Alerter stopped.")
	})
}

// Tick performs one evaluation: drain, evaluate, append, dispatch. It
// returns the notifications emitted by this tick.
func (a *Alerter) Tick() []notification.LoggedNotification {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()

	counters := a.source.DrainAndReset()
	favorites := a.source.DrainFavorites()
	settings := a.settings()
	now := a.now()

	events := EvaluateThresholds(counters, settings, now)
	events = append(events, EvaluateFavorites(favorites, settings, now)...)

	a.log.Append(events...)
	a.metrics.ObserveTick(counters, events)

	if len(events) == 0 {
		return nil
	}
	log.Printf("Alerter tick at %s: %d notification(s) emitted", now.Format(notification.TimestampLayout), len(events))
	a.dispatch(events)
	return events
}

// dispatch queues events for the sinks. Called with tickMu held.
func (a *Alerter) dispatch(events []notification.LoggedNotification) {
	if a.closed || len(a.sinks) == 0 {
		return
	}
	select {
	case a.queue <- events:
	default:
		log.Printf("Alerter: sink queue is full, dropping %d notification(s).", len(events))
		for _, s := range a.sinks {
			a.metrics.SinkError(s.Name())
		}
	}
}

func (a *Alerter) runSinks() {
	for batch := range a.queue {
		for _, s := range a.sinks {
			if err := s.Write(batch); err != nil {
				log.Printf("ERROR: sink %s failed to export %d notification(s): %v", s.Name(), len(batch), err)
				a.metrics.SinkError(s.Name())
			}
		}
	}
}
