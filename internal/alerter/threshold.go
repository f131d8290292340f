package alerter

import (
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"time"
)

// EvaluateThresholds compares one tick of counters against the packet and
// byte thresholds. Each enabled check fires at most once per tick, and only
// when the incoming+outgoing sum is strictly greater than its threshold.
func EvaluateThresholds(c model.RuntimeCounters, s notification.Settings, now time.Time) []notification.LoggedNotification {
	var out []notification.LoggedNotification

	if t := s.Packets.Threshold; t != nil {
		sum := uint64(c.IncomingPackets) + uint64(c.OutgoingPackets)
		if sum > uint64(*t) {
			out = append(out, notification.NewPacketsThresholdExceeded(*t, c.IncomingPackets, c.OutgoingPackets, now))
		}
	}

	if t := s.Bytes.Threshold; t != nil {
		if model.SatAdd64(c.IncomingBytes, c.OutgoingBytes) > *t {
			out = append(out, notification.NewBytesThresholdExceeded(*t, c.IncomingBytes, c.OutgoingBytes, now))
		}
	}

	return out
}
