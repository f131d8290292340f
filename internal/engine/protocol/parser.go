package protocol

import (
	"NetSentinel/internal/model"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Classifier decides the direction of a flow from the set of local networks.
// Without configured networks, private, loopback and link-local addresses
// count as local.
type Classifier struct {
	local []*net.IPNet
}

// NewClassifier creates a classifier for the given local networks.
func NewClassifier(local []*net.IPNet) *Classifier {
	return &Classifier{local: local}
}

// IsLocal reports whether ip belongs to the monitored side.
func (c *Classifier) IsLocal(ip net.IP) bool {
	if c == nil || len(c.local) == 0 {
		return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
	}
	for _, n := range c.local {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Direction is Outgoing when the source is local, Incoming otherwise.
func (c *Classifier) Direction(src, dst net.IP) model.Direction {
	if c.IsLocal(src) {
		return model.Outgoing
	}
	return model.Incoming
}

// ParsePacket extracts the flow of an IPv4 or IPv6 packet carrying TCP or UDP.
func ParsePacket(packet gopacket.Packet, c *Classifier) (*model.PacketInfo, error) {
	info := &model.PacketInfo{
		Timestamp: time.Now(), // Overwritten by packet metadata if available
		Length:    len(packet.Data()),
	}

	if meta := packet.Metadata(); meta != nil {
		if !meta.Timestamp.IsZero() {
			info.Timestamp = meta.Timestamp
		}
		if meta.Length > 0 {
			info.Length = meta.Length
		}
	}

	var fiveTuple model.FiveTuple

	if l := packet.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		fiveTuple.SrcIP = ip.SrcIP
		fiveTuple.DstIP = ip.DstIP
		fiveTuple.Protocol = uint8(ip.Protocol)
		info.Version = model.IPv4
	} else if l := packet.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		fiveTuple.SrcIP = ip.SrcIP
		fiveTuple.DstIP = ip.DstIP
		fiveTuple.Protocol = uint8(ip.NextHeader)
		info.Version = model.IPv6
	} else {
		return nil, fmt.Errorf("not an IP packet")
	}

	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		fiveTuple.SrcPort = uint16(tcp.SrcPort)
		fiveTuple.DstPort = uint16(tcp.DstPort)
		fiveTuple.Protocol = model.ProtocolTCP
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		fiveTuple.SrcPort = uint16(udp.SrcPort)
		fiveTuple.DstPort = uint16(udp.DstPort)
		fiveTuple.Protocol = model.ProtocolUDP
	} else {
		return nil, fmt.Errorf("not a TCP or UDP packet")
	}

	info.FiveTuple = fiveTuple
	info.Direction = c.Direction(fiveTuple.SrcIP, fiveTuple.DstIP)

	return info, nil
}
