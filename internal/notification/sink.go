package notification

// Sink receives every batch of notifications emitted by a tick, after the
// batch has been appended to the Log. Sinks export; they never feed back.
type Sink interface {
	Name() string
	Write(events []LoggedNotification) error
	Close() error
}
