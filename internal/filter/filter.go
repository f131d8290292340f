package filter

import (
	"NetSentinel/internal/model"
)

// Filters are the user's traffic filters. A Filters value is replaced
// wholesale on edit and never mutated while flows are being matched.
type Filters struct {
	IP        model.IPVersion
	Transport model.TransProtocol
	// Ports selects destination ports. A nil PortFilter behaves like Default().Ports.
	Ports PortFilter
}

// Default returns filters accepting every flow.
func Default() Filters {
	return Filters{
		IP:        model.AnyIP,
		Transport: model.AnyTransport,
		Ports:     Interval{Low: 0, High: 65535},
	}
}

// Candidate is the part of a flow the filters look at.
type Candidate struct {
	IP        model.IPVersion
	Transport model.TransProtocol
	Port      uint16
}

// CandidateOf extracts the matchable fields of a decoded packet.
func CandidateOf(p *model.PacketInfo) Candidate {
	return Candidate{
		IP:        p.IPVersion(),
		Transport: p.Transport(),
		Port:      p.FiveTuple.DstPort,
	}
}

// Matches reports whether c passes every filter. It has no side effects and
// can be called speculatively, e.g. while the user is typing a port range.
func Matches(c Candidate, f Filters) bool {
	if f.IP != model.AnyIP && c.IP != f.IP {
		return false
	}
	if f.Transport != model.AnyTransport && c.Transport != f.Transport {
		return false
	}
	if f.Ports == nil {
		return true
	}
	return f.Ports.matchPort(c.Port)
}

// MatchesPacket is Matches applied to a decoded packet.
func MatchesPacket(p *model.PacketInfo, f Filters) bool {
	return Matches(CandidateOf(p), f)
}
