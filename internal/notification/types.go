package notification

import (
	"NetSentinel/internal/model"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the tick-resolution layout of Header.Timestamp.
const TimestampLayout = "2006/01/02 15:04:05"

// Kind names a LoggedNotification variant.
type Kind string

const (
	KindPacketsThresholdExceeded Kind = "packets_threshold_exceeded"
	KindBytesThresholdExceeded   Kind = "bytes_threshold_exceeded"
	KindFavoriteTransmitted      Kind = "favorite_transmitted"
)

// LoggedNotification is one of PacketsThresholdExceeded, BytesThresholdExceeded
// or FavoriteTransmitted. Values are never modified after creation.
type LoggedNotification interface {
	Kind() Kind
	Meta() Header
	// Summary is a one-line, human-readable description.
	Summary() string
	loggedNotification()
}

// Header is shared by every notification.
type Header struct {
	ID         string    `json:"id"`
	Timestamp  string    `json:"timestamp"`
	CapturedAt time.Time `json:"captured_at"`
}

func newHeader(now time.Time) Header {
	at := now.Truncate(time.Second)
	return Header{
		ID:         uuid.NewString(),
		Timestamp:  at.Format(TimestampLayout),
		CapturedAt: at,
	}
}

// PacketsThresholdExceeded is emitted when incoming+outgoing packets of a tick exceed the threshold.
type PacketsThresholdExceeded struct {
	Header
	Threshold uint32 `json:"threshold"`
	Incoming  uint32 `json:"incoming"`
	Outgoing  uint32 `json:"outgoing"`
}

// NewPacketsThresholdExceeded stamps a new packets notification at now.
func NewPacketsThresholdExceeded(threshold, incoming, outgoing uint32, now time.Time) PacketsThresholdExceeded {
	return PacketsThresholdExceeded{Header: newHeader(now), Threshold: threshold, Incoming: incoming, Outgoing: outgoing}
}

func (PacketsThresholdExceeded) Kind() Kind { return KindPacketsThresholdExceeded }
func (n PacketsThresholdExceeded) Meta() Header { return n.Header }
func (PacketsThresholdExceeded) loggedNotification() {}

// Total is the number of packets observed in the tick.
func (n PacketsThresholdExceeded) Total() uint64 {
	return uint64(n.Incoming) + uint64(n.Outgoing)
}

func (n PacketsThresholdExceeded) Summary() string {
	return fmt.Sprintf("packets threshold exceeded: %d packets/s (threshold %d/s, incoming %d, outgoing %d)",
		n.Total(), n.Threshold, n.Incoming, n.Outgoing)
}

// BytesThresholdExceeded is emitted when incoming+outgoing bytes of a tick exceed the threshold.
type BytesThresholdExceeded struct {
	Header
	Threshold uint64 `json:"threshold"`
	Incoming  uint64 `json:"incoming"`
	Outgoing  uint64 `json:"outgoing"`
}

// NewBytesThresholdExceeded stamps a new bytes notification at now.
func NewBytesThresholdExceeded(threshold, incoming, outgoing uint64, now time.Time) BytesThresholdExceeded {
	return BytesThresholdExceeded{Header: newHeader(now), Threshold: threshold, Incoming: incoming, Outgoing: outgoing}
}

func (BytesThresholdExceeded) Kind() Kind { return KindBytesThresholdExceeded }
func (n BytesThresholdExceeded) Meta() Header { return n.Header }
func (BytesThresholdExceeded) loggedNotification() {}

// Total is the number of bytes observed in the tick, saturated at the maximum uint64.
func (n BytesThresholdExceeded) Total() uint64 {
	return model.SatAdd64(n.Incoming, n.Outgoing)
}

func (n BytesThresholdExceeded) Summary() string {
	return fmt.Sprintf("bytes threshold exceeded: %s/s (threshold %s/s, incoming %s, outgoing %s)",
		FormatBytes(n.Total()), FormatBytes(n.Threshold), FormatBytes(n.Incoming), FormatBytes(n.Outgoing))
}

// FavoriteTransmitted is emitted once per tick for every favorite host that exchanged traffic.
type FavoriteTransmitted struct {
	Header
	Host     model.Host     `json:"host"`
	DataInfo model.DataInfo `json:"data_info"`
}

// NewFavoriteTransmitted stamps a new favorite notification at now.
func NewFavoriteTransmitted(host model.Host, data model.DataInfo, now time.Time) FavoriteTransmitted {
	return FavoriteTransmitted{Header: newHeader(now), Host: host, DataInfo: data}
}

func (FavoriteTransmitted) Kind() Kind { return KindFavoriteTransmitted }
func (n FavoriteTransmitted) Meta() Header { return n.Header }
func (FavoriteTransmitted) loggedNotification() {}

func (n FavoriteTransmitted) Summary() string {
	name := n.Host.Domain
	if name == "" {
		name = n.Host.Address
	}
	if n.Host.ASN != "" {
		name += " - " + n.Host.ASN
	}
	if n.Host.Country != "" {
		name += " [" + n.Host.Country + "]"
	}
	return fmt.Sprintf("favorite host transmitted: %s (%s in, %s out)",
		name, FormatBytes(n.DataInfo.IncomingBytes), FormatBytes(n.DataInfo.OutgoingBytes))
}

// FormatBytes renders n with a decimal unit suffix, e.g. "1.5 KB".
func FormatBytes(n uint64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 5; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
