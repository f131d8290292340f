package alerter

import (
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"time"
)

// EvaluateFavorites emits one FavoriteTransmitted per distinct host in
// activity, or nothing when favorite notifications are off. Repeated entries
// for the same host address are merged; output keeps first-seen order.
func EvaluateFavorites(activity []model.HostActivity, s notification.Settings, now time.Time) []notification.LoggedNotification {
	if !s.Favorite.NotifyOnFavorite || len(activity) == 0 {
		return nil
	}

	merged := make(map[string]int, len(activity))
	hosts := make([]model.HostActivity, 0, len(activity))
	for _, act := range activity {
		if i, ok := merged[act.Host.Address]; ok {
			hosts[i].Data.Add(act.Data)
			continue
		}
		merged[act.Host.Address] = len(hosts)
		hosts = append(hosts, act)
	}

	out := make([]notification.LoggedNotification, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, notification.NewFavoriteTransmitted(h.Host, h.Data, now))
	}
	return out
}
