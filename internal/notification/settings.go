package notification

// PacketsNotification enables the packets-per-tick check. A nil Threshold disables it.
type PacketsNotification struct {
	Threshold *uint32
}

// BytesNotification enables the bytes-per-tick check. A nil Threshold disables it.
type BytesNotification struct {
	Threshold *uint64
}

// FavoriteNotification enables notifications for favorite hosts.
type FavoriteNotification struct {
	NotifyOnFavorite bool
}

// Settings configure which notifications the engine emits.
type Settings struct {
	Packets  PacketsNotification
	Bytes    BytesNotification
	Favorite FavoriteNotification
}

// AnyEnabled reports whether at least one notification kind can fire.
func (s Settings) AnyEnabled() bool {
	return s.Packets.Threshold != nil || s.Bytes.Threshold != nil || s.Favorite.NotifyOnFavorite
}

// Clone returns a copy that shares no pointers with s.
func (s Settings) Clone() Settings {
	out := s
	if s.Packets.Threshold != nil {
		t := *s.Packets.Threshold
		out.Packets.Threshold = &t
	}
	if s.Bytes.Threshold != nil {
		t := *s.Bytes.Threshold
		out.Bytes.Threshold = &t
	}
	return out
}

// ViewState describes what a notifications view should present.
type ViewState string

const (
	// ViewNotConfigured: nothing enabled and nothing logged.
	ViewNotConfigured ViewState = "not_configured"
	// ViewWaiting: something is enabled but nothing is logged yet.
	ViewWaiting ViewState = "waiting"
	// ViewActive: the log has entries to show.
	ViewActive ViewState = "active"
)

// StateOf derives the view state from the settings and a log snapshot.
func StateOf(s Settings, snap Snapshot) ViewState {
	switch {
	case len(snap.Notifications) > 0:
		return ViewActive
	case s.AnyEnabled():
		return ViewWaiting
	default:
		return ViewNotConfigured
	}
}
