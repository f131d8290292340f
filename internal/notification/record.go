package notification

// Record is the exported form of a notification, used wherever one leaves
// the process (HTTP API, NATS, ClickHouse).
type Record struct {
	Kind         Kind               `json:"kind"`
	Summary      string             `json:"summary"`
	Notification LoggedNotification `json:"notification"`
}

// RecordOf wraps ev for export.
func RecordOf(ev LoggedNotification) Record {
	return Record{Kind: ev.Kind(), Summary: ev.Summary(), Notification: ev}
}

// Records wraps every event, keeping the order.
func Records(events []LoggedNotification) []Record {
	out := make([]Record, 0, len(events))
	for _, ev := range events {
		out = append(out, RecordOf(ev))
	}
	return out
}
