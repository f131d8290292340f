package pcap

import (
	"NetSentinel/internal/engine/protocol"
	"NetSentinel/internal/model"
	"fmt"
	"log"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"
)

// Reader reads packets from a pcap file.
type Reader struct {
	file   *os.File
	reader *pcapgo.Reader
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read pcap header: %w", err)
	}
	return &Reader{file: f, reader: r}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() {
	r.file.Close()
}

// ReadPackets parses every packet of the file and sends the resulting flows
// to out, which is closed when the file is exhausted. Packets that are not
// IP with TCP or UDP are skipped. It returns the number of flows sent.
func (r *Reader) ReadPackets(out chan<- *model.PacketInfo, c *protocol.Classifier) int {
	defer close(out)

	packetSource := gopacket.NewPacketSource(r.reader, r.reader.LinkType())
	sent := 0
	for packet := range packetSource.Packets() {
		info, err := protocol.ParsePacket(packet, c)
		if err != nil {
			log.Printf("Skipping packet: %v", err)
			continue
		}
		out <- info
		sent++
	}
	return sent
}
