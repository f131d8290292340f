package notification

import (
	"sync"
)

// Capacity is the number of notifications retained by a Log.
const Capacity = 30

// Snapshot is a point-in-time copy of a Log.
type Snapshot struct {
	Notifications []LoggedNotification
	Unread        uint64
	TotalEmitted  uint64
}

// Truncated reports whether older notifications may have been evicted from view,
// i.e. only the last Capacity entries are shown.
func (s Snapshot) Truncated() bool {
	return len(s.Notifications) >= Capacity
}

// Log is the capped, ordered notification history shared between the
// alerter, which appends, and readers such as the HTTP API.
type Log struct {
	mu           sync.Mutex
	entries      []LoggedNotification
	unread       uint64
	totalEmitted uint64
	observer     func(unread uint64, length int)
}

// NewLog creates an empty notification log.
func NewLog() *Log {
	return &Log{entries: make([]LoggedNotification, 0, Capacity+1)}
}

// SetObserver registers fn to receive the unread counter and length after
// every change. fn runs with the log locked, so successive calls are
// ordered and it must not call back into the log.
func (l *Log) SetObserver(fn func(unread uint64, length int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = fn
	l.notify()
}

// notify is called with mu held.
func (l *Log) notify() {
	if l.observer != nil {
		l.observer(l.unread, len(l.entries))
	}
}

// Append adds events in order. Each event counts as emitted and unread;
// eviction of the oldest entries never lowers either counter.
func (l *Log) Append(events ...LoggedNotification) {
	if len(events) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ev := range events {
		l.entries = append(l.entries, ev)
		l.totalEmitted++
		l.unread++
		if over := len(l.entries) - Capacity; over > 0 {
			// Shift in place; the backing array stays at Capacity+1.
			n := copy(l.entries, l.entries[over:])
			for i := n; i < len(l.entries); i++ {
				l.entries[i] = nil
			}
			l.entries = l.entries[:n]
		}
	}
	l.notify()
}

// MarkAllRead resets the unread counter. Stored events are untouched.
func (l *Log) MarkAllRead() {
	l.mu.Lock()
	l.unread = 0
	l.notify()
	l.mu.Unlock()
}

// ClearAll drops every stored event. Unread and emitted counters keep their values.
func (l *Log) ClearAll() {
	l.mu.Lock()
	for i := range l.entries {
		l.entries[i] = nil
	}
	l.entries = l.entries[:0]
	l.notify()
	l.mu.Unlock()
}

// Snapshot returns a consistent copy of the log, oldest entry first.
func (l *Log) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LoggedNotification, len(l.entries))
	copy(entries, l.entries)
	return Snapshot{
		Notifications: entries,
		Unread:        l.unread,
		TotalEmitted:  l.totalEmitted,
	}
}

// Unread returns the unread counter.
func (l *Log) Unread() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// Len returns the number of stored events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
