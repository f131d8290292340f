package model

import (
	"net"
	"testing"
)

func TestSatAdd(t *testing.T) {
	if got := SatAdd32(^uint32(0)-1, 5); got != ^uint32(0) {
		t.Errorf("SatAdd32 wrapped: %d", got)
	}
	if got := SatAdd32(2, 3); got != 5 {
		t.Errorf("SatAdd32(2, 3) = %d", got)
	}
	if got := SatAdd64(^uint64(0), ^uint64(0)); got != ^uint64(0) {
		t.Errorf("SatAdd64 wrapped: %d", got)
	}
	if got := SatAdd64(1<<40, 1<<40); got != 1<<41 {
		t.Errorf("SatAdd64(2^40, 2^40) = %d", got)
	}
}

func TestDataInfoAdd(t *testing.T) {
	d := DataInfo{IncomingPackets: ^uint32(0), OutgoingBytes: 10}
	d.Add(DataInfo{IncomingPackets: 1, OutgoingPackets: 2, OutgoingBytes: 5})
	want := DataInfo{IncomingPackets: ^uint32(0), OutgoingPackets: 2, OutgoingBytes: 15}
	if d != want {
		t.Errorf("got %+v, want %+v", d, want)
	}
}

func TestPacketInfo(t *testing.T) {
	p := &PacketInfo{
		FiveTuple: FiveTuple{SrcIP: net.ParseIP("10.0.0.1"), DstIP: net.ParseIP("1.1.1.1"), Protocol: ProtocolUDP},
		Direction: Outgoing,
	}
	if p.IPVersion() != IPv4 || p.Transport() != UDP {
		t.Errorf("unexpected classification %s/%s", p.IPVersion(), p.Transport())
	}
	if !p.RemoteIP().Equal(net.ParseIP("1.1.1.1")) {
		t.Errorf("outgoing remote must be the destination, got %s", p.RemoteIP())
	}

	p.Direction = Incoming
	p.FiveTuple.Protocol = 1
	if !p.RemoteIP().Equal(net.ParseIP("10.0.0.1")) {
		t.Errorf("incoming remote must be the source, got %s", p.RemoteIP())
	}
	if p.Transport() != AnyTransport {
		t.Errorf("ICMP must not classify as TCP or UDP")
	}

	p.FiveTuple.SrcIP = net.ParseIP("2001:db8::1")
	if p.IPVersion() != IPv6 {
		t.Errorf("expected ipv6")
	}
}
