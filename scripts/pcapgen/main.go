package main

import (
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var (
	localV4  = net.IPv4(192, 168, 1, 20)
	localV6  = net.ParseIP("fe80::20")
	remoteV4 = []net.IP{net.IPv4(1, 1, 1, 1), net.IPv4(9, 9, 9, 9), net.IPv4(93, 184, 216, 34), net.IPv4(140, 82, 121, 4)}
	remoteV6 = []net.IP{net.ParseIP("2606:4700::1111"), net.ParseIP("2620:fe::fe")}
	services = []uint16{22, 53, 80, 123, 443, 993, 8080}
)

// Generates a capture of mixed IPv4/IPv6 TCP/UDP traffic between one local
// host and a few remote ones, spread over the requested duration, for
// 'ns-sentinel replay'.
func main() {
	outputFile := flag.String("o", "test.pcap", "Output pcap file path")
	packetCount := flag.Int("c", 1000, "Number of packets to generate")
	duration := flag.Duration("d", 10*time.Second, "Capture time span")
	ipv6Share := flag.Float64("ipv6", 0.2, "Share of IPv6 packets")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	pcapWriter := pcapgo.NewWriter(f)
	if err := pcapWriter.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("Failed to write pcap header: %v", err)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now().Truncate(time.Second)
	step := *duration / time.Duration(max(*packetCount, 1))

	log.Printf("Generating %d packets into %s...", *packetCount, *outputFile)

	for i := 0; i < *packetCount; i++ {
		data, err := randomPacket(r, r.Float64() < *ipv6Share)
		if err != nil {
			log.Fatalf("Failed to serialize layers: %v", err)
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * step),
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := pcapWriter.WritePacket(ci, data); err != nil {
			log.Fatalf("Failed to write packet: %v", err)
		}
	}

	log.Printf("Successfully generated %d packets into %s.", *packetCount, *outputFile)
}

func randomPacket(r *rand.Rand, v6 bool) ([]byte, error) {
	local, remote := localV4, remoteV4[r.Intn(len(remoteV4))]
	ethType := layers.EthernetTypeIPv4
	if v6 {
		local, remote = localV6, remoteV6[r.Intn(len(remoteV6))]
		ethType = layers.EthernetTypeIPv6
	}

	// Half of the packets are replies from the remote service.
	src, dst := local, remote
	srcPort, dstPort := uint16(r.Intn(65535-1024)+1024), services[r.Intn(len(services))]
	if r.Intn(2) == 0 {
		src, dst = remote, local
		srcPort, dstPort = dstPort, srcPort
	}

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
		EthernetType: ethType,
	}

	udp := r.Intn(3) == 0
	proto := layers.IPProtocolTCP
	if udp {
		proto = layers.IPProtocolUDP
	}

	var ip gopacket.NetworkLayer
	var ipLayer gopacket.SerializableLayer
	if v6 {
		l := &layers.IPv6{Version: 6, HopLimit: 64, NextHeader: proto, SrcIP: src, DstIP: dst}
		ip, ipLayer = l, l
	} else {
		l := &layers.IPv4{Version: 4, TTL: 64, Protocol: proto, SrcIP: src, DstIP: dst}
		ip, ipLayer = l, l
	}

	var transport gopacket.SerializableLayer
	if udp {
		l := &layers.UDP{SrcPort: layers.UDPPort(srcPort), DstPort: layers.UDPPort(dstPort)}
		l.SetNetworkLayerForChecksum(ip)
		transport = l
	} else {
		l := &layers.TCP{
			SrcPort: layers.TCPPort(srcPort),
			DstPort: layers.TCPPort(dstPort),
			Seq:     r.Uint32(),
			ACK:     true,
			Ack:     r.Uint32(),
			Window:  14600,
		}
		l.SetNetworkLayerForChecksum(ip)
		transport = l
	}

	payload := make([]byte, r.Intn(1400)+50)
	r.Read(payload)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, ipLayer, transport, gopacket.Payload(payload)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
