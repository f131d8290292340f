package flowaggregator

import (
	"NetSentinel/internal/model"
	"sync"
)

// Aggregator owns the live per-tick counters. Workers call Accept for every
// flow that passed the filters; the alerter calls DrainAndReset once per tick.
type Aggregator struct {
	mu       sync.Mutex
	counters model.RuntimeCounters

	favMu     sync.Mutex
	favorites map[string]*model.HostActivity
	favOrder  []string
}

// NewAggregator creates an aggregator with zeroed counters.
func NewAggregator() *Aggregator {
	return &Aggregator{
		favorites: make(map[string]*model.HostActivity),
	}
}

// Accept counts one packet of flow.Length bytes in the flow's direction.
// Counters saturate instead of wrapping around.
func (a *Aggregator) Accept(flow *model.PacketInfo) {
	n := byteLen(flow)

	a.mu.Lock()
	defer a.mu.Unlock()

	if flow.Direction == model.Outgoing {
		a.counters.OutgoingPackets = model.SatAdd32(a.counters.OutgoingPackets, 1)
		a.counters.OutgoingBytes = model.SatAdd64(a.counters.OutgoingBytes, n)
	} else {
		a.counters.IncomingPackets = model.SatAdd32(a.counters.IncomingPackets, 1)
		a.counters.IncomingBytes = model.SatAdd64(a.counters.IncomingBytes, n)
	}
}

// DrainAndReset returns the totals of the current tick and zeroes them.
// A flow accepted concurrently lands either in this drain or in the next one.
func (a *Aggregator) DrainAndReset() model.RuntimeCounters {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.counters
	a.counters = model.RuntimeCounters{}
	return out
}

// ObserveFavorite records traffic exchanged with a favorite host during the current tick.
func (a *Aggregator) ObserveFavorite(host model.Host, flow *model.PacketInfo) {
	var data model.DataInfo
	n := byteLen(flow)
	if flow.Direction == model.Outgoing {
		data.OutgoingPackets, data.OutgoingBytes = 1, n
	} else {
		data.IncomingPackets, data.IncomingBytes = 1, n
	}

	a.favMu.Lock()
	defer a.favMu.Unlock()

	if act, ok := a.favorites[host.Address]; ok {
		act.Data.Add(data)
		return
	}
	a.favorites[host.Address] = &model.HostActivity{Host: host, Data: data}
	a.favOrder = append(a.favOrder, host.Address)
}

// DrainFavorites returns one entry per favorite host seen since the last
// drain, in first-seen order, and forgets them.
func (a *Aggregator) DrainFavorites() []model.HostActivity {
	a.favMu.Lock()
	defer a.favMu.Unlock()

	if len(a.favOrder) == 0 {
		return nil
	}
	out := make([]model.HostActivity, 0, len(a.favOrder))
	for _, key := range a.favOrder {
		out = append(out, *a.favorites[key])
	}
	a.favorites = make(map[string]*model.HostActivity)
	a.favOrder = nil
	return out
}

func byteLen(flow *model.PacketInfo) uint64 {
	if flow.Length < 0 {
		return 0
	}
	return uint64(flow.Length)
}
