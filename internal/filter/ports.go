package filter

import (
	"sort"
)

// PortFilter is one of Interval, Single or WellKnown. The unexported method
// closes the set, so a new variant has to implement matching to exist at all.
type PortFilter interface {
	Kind() PortKind
	matchPort(port uint16) bool
}

// PortKind names the active PortFilter variant.
type PortKind string

const (
	KindInterval  PortKind = "interval"
	KindSingle    PortKind = "single"
	KindWellKnown PortKind = "well_known"
)

// Interval matches Low <= port <= High. Low > High is kept as is and matches
// nothing; callers surface it as an input error with Empty.
type Interval struct {
	Low  uint16
	High uint16
}

func (Interval) Kind() PortKind { return KindInterval }

// Empty reports whether no port can fall in the interval.
func (i Interval) Empty() bool { return i.Low > i.High }

func (i Interval) matchPort(port uint16) bool {
	return i.Low <= port && port <= i.High
}

// Single matches exactly one port.
type Single struct {
	Port uint16
}

func (Single) Kind() PortKind { return KindSingle }

func (s Single) matchPort(port uint16) bool { return port == s.Port }

// WellKnown matches ports belonging to a set of registered service ports.
type WellKnown struct {
	ports map[uint16]struct{}
}

// NewWellKnown builds a WellKnown filter over ports. Duplicates are ignored.
func NewWellKnown(ports ...uint16) WellKnown {
	set := make(map[uint16]struct{}, len(ports))
	for _, p := range ports {
		set[p] = struct{}{}
	}
	return WellKnown{ports: set}
}

func (WellKnown) Kind() PortKind { return KindWellKnown }

func (w WellKnown) matchPort(port uint16) bool {
	_, ok := w.ports[port]
	return ok
}

// Len returns the size of the set.
func (w WellKnown) Len() int { return len(w.ports) }

// Ports returns the set in ascending order.
func (w WellKnown) Ports() []uint16 {
	out := make([]uint16, 0, len(w.ports))
	for p := range w.ports {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
