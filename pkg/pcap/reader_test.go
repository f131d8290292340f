package pcap

import (
	"NetSentinel/internal/model"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

func writeTestPcap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create pcap: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}

	mac := net.HardwareAddr{0x02, 0, 0, 0, 0, 1}
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	at := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)

	// 1. A TCP packet
	ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolTCP,
		SrcIP: net.IPv4(10, 0, 0, 1), DstIP: net.IPv4(93, 184, 216, 34)}
	tcp := &layers.TCP{SrcPort: 40000, DstPort: 80, ACK: true}
	tcp.SetNetworkLayerForChecksum(ip)
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, opts,
		&layers.Ethernet{SrcMAC: mac, DstMAC: mac, EthernetType: layers.EthernetTypeIPv4}, ip, tcp); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	writePacket(t, w, buf.Bytes(), at)

	// 2. An ARP request, which is skipped
	arp := &layers.ARP{
		AddrType: layers.LinkTypeEthernet, Protocol: layers.EthernetTypeIPv4,
		HwAddressSize: 6, ProtAddressSize: 4, Operation: layers.ARPRequest,
		SourceHwAddress: mac, SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress: make([]byte, 6), DstProtAddress: []byte{10, 0, 0, 2},
	}
	buf = gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, opts,
		&layers.Ethernet{SrcMAC: mac, DstMAC: mac, EthernetType: layers.EthernetTypeARP}, arp); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	writePacket(t, w, buf.Bytes(), at.Add(time.Second))

	return path
}

func writePacket(t *testing.T, w *pcapgo.Writer, data []byte, at time.Time) {
	t.Helper()
	ci := gopacket.CaptureInfo{Timestamp: at, CaptureLength: len(data), Length: len(data)}
	if err := w.WritePacket(ci, data); err != nil {
		t.Fatalf("Failed to write packet: %v", err)
	}
}

func TestReader_ReadPackets(t *testing.T) {
	reader, err := NewReader(writeTestPcap(t))
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer reader.Close()

	out := make(chan *model.PacketInfo)
	done := make(chan int)
	go func() { done <- reader.ReadPackets(out, nil) }()

	var flows []*model.PacketInfo
	for info := range out {
		flows = append(flows, info)
	}

	if len(flows) != 1 {
		t.Fatalf("Expected to read 1 flow, but got %d", len(flows))
	}
	if sent := <-done; sent != 1 {
		t.Errorf("Expected ReadPackets to report 1, got %d", sent)
	}
	if flows[0].FiveTuple.DstPort != 80 || flows[0].Direction != model.Outgoing {
		t.Errorf("Unexpected flow %+v", flows[0])
	}
	if !flows[0].Timestamp.Equal(time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected the capture timestamp, got %v", flows[0].Timestamp)
	}
}

func TestNewReader_NotAPcap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pcap")
	if err := os.WriteFile(path, []byte("definitely not a pcap"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewReader(path); err == nil {
		t.Error("Expected an error for a file without a pcap header")
	}
}
