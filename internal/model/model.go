package model

import (
	"net"
	"time"
)

// IPVersion is the Internet Protocol version of a flow. AnyIP is only
// meaningful inside a filter; decoded flows always carry IPv4 or IPv6.
type IPVersion uint8

const (
	AnyIP IPVersion = iota
	IPv4
	IPv6
)

func (v IPVersion) String() string {
	switch v {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "any"
	}
}

// TransProtocol is the transport layer protocol of a flow. AnyTransport is
// only meaningful inside a filter.
type TransProtocol uint8

const (
	AnyTransport TransProtocol = iota
	TCP
	UDP
)

// IANA protocol numbers carried in FiveTuple.Protocol.
const (
	ProtocolTCP uint8 = 6
	ProtocolUDP uint8 = 17
)

func (p TransProtocol) String() string {
	switch p {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return "any"
	}
}

// Direction tells whether a flow was received by or sent from the monitored host.
// It is decided by the capture side, never recomputed by the engine.
type Direction uint8

const (
	Incoming Direction = iota
	Outgoing
)

func (d Direction) String() string {
	if d == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// FiveTuple represents the 5-tuple of a network packet.
type FiveTuple struct {
	SrcIP    net.IP
	DstIP    net.IP
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8
}

// PacketInfo is a single flow unit delivered by the capture collaborator.
type PacketInfo struct {
	Timestamp time.Time
	FiveTuple FiveTuple
	Length    int
	Direction Direction
	// Version is the IP layer the packet was decoded from. An IPv6 packet
	// may carry IPv4-mapped addresses, so it cannot be told from the addresses.
	Version IPVersion
}

// IPVersion reports the IP version of the packet. Without a decoded
// Version it falls back to the form of the source address.
func (p *PacketInfo) IPVersion() IPVersion {
	if p.Version != AnyIP {
		return p.Version
	}
	if p.FiveTuple.SrcIP.To4() != nil {
		return IPv4
	}
	return IPv6
}

// Transport reports the transport protocol, AnyTransport when it is neither TCP nor UDP.
func (p *PacketInfo) Transport() TransProtocol {
	switch p.FiveTuple.Protocol {
	case ProtocolTCP:
		return TCP
	case ProtocolUDP:
		return UDP
	default:
		return AnyTransport
	}
}

// RemoteIP returns the address of the peer: the destination of outgoing
// traffic, the source of incoming traffic.
func (p *PacketInfo) RemoteIP() net.IP {
	if p.Direction == Outgoing {
		return p.FiveTuple.DstIP
	}
	return p.FiveTuple.SrcIP
}

// RuntimeCounters are the traffic totals of one tick window.
type RuntimeCounters struct {
	IncomingPackets uint32
	OutgoingPackets uint32
	IncomingBytes   uint64
	OutgoingBytes   uint64
}

// Host identifies a remote host. Domain, Country and ASN are only displayed.
type Host struct {
	Address string `json:"address"`
	Domain  string `json:"domain"`
	Country string `json:"country"`
	ASN     string `json:"asn"`
}

// DataInfo holds the traffic exchanged with a host within one tick.
type DataInfo struct {
	IncomingPackets uint32 `json:"incoming_packets"`
	OutgoingPackets uint32 `json:"outgoing_packets"`
	IncomingBytes   uint64 `json:"incoming_bytes"`
	OutgoingBytes   uint64 `json:"outgoing_bytes"`
}

// Add accumulates other into d, saturating every field.
func (d *DataInfo) Add(other DataInfo) {
	d.IncomingPackets = SatAdd32(d.IncomingPackets, other.IncomingPackets)
	d.OutgoingPackets = SatAdd32(d.OutgoingPackets, other.OutgoingPackets)
	d.IncomingBytes = SatAdd64(d.IncomingBytes, other.IncomingBytes)
	d.OutgoingBytes = SatAdd64(d.OutgoingBytes, other.OutgoingBytes)
}

// HostActivity is a favorite host observed transmitting during a tick.
type HostActivity struct {
	Host Host
	Data DataInfo
}

// HostResolver decides whether a remote address belongs to a favorite host.
type HostResolver interface {
	Resolve(ip net.IP) (Host, bool)
}

// SatAdd32 adds without wrapping around.
func SatAdd32(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}

// SatAdd64 adds without wrapping around.
func SatAdd64(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}
