package alerter

import (
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"testing"
)

func TestEvaluateFavorites_Disabled(t *testing.T) {
	activity := []model.HostActivity{{Host: model.Host{Address: "1.1.1.1"}}}
	if events := EvaluateFavorites(activity, notification.Settings{}, tick); len(events) != 0 {
		t.Errorf("expected no events when favorites are off, got %d", len(events))
	}
}

func TestEvaluateFavorites_OnePerHost(t *testing.T) {
	s := notification.Settings{Favorite: notification.FavoriteNotification{NotifyOnFavorite: true}}
	a := model.Host{Address: "1.1.1.1", Domain: "one.one.one.one", Country: "AU", ASN: "CLOUDFLARENET"}
	b := model.Host{Address: "9.9.9.9", Domain: "dns.quad9.net"}
	activity := []model.HostActivity{
		{Host: b, Data: model.DataInfo{IncomingPackets: 1, IncomingBytes: 100}},
		{Host: a, Data: model.DataInfo{OutgoingPackets: 2, OutgoingBytes: 80}},
		{Host: b, Data: model.DataInfo{OutgoingPackets: 1, OutgoingBytes: 20}},
	}

	events := EvaluateFavorites(activity, s, tick)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0].(notification.FavoriteTransmitted)
	second := events[1].(notification.FavoriteTransmitted)
	if first.Host != b || second.Host != a {
		t.Errorf("expected first-seen order [b a], got [%s %s]", first.Host.Address, second.Host.Address)
	}
	want := model.DataInfo{IncomingPackets: 1, OutgoingPackets: 1, IncomingBytes: 100, OutgoingBytes: 20}
	if first.DataInfo != want {
		t.Errorf("expected merged data %+v, got %+v", want, first.DataInfo)
	}
}

func TestEvaluateFavorites_EmptyInput(t *testing.T) {
	s := notification.Settings{Favorite: notification.FavoriteNotification{NotifyOnFavorite: true}}
	if events := EvaluateFavorites(nil, s, tick); len(events) != 0 {
		t.Errorf("expected no events without activity, got %d", len(events))
	}
}
