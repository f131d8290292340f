package sink

import (
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

var now = time.Date(2026, 10, 18, 8, 30, 0, 0, time.UTC)

func sample() []notification.LoggedNotification {
	return []notification.LoggedNotification{
		notification.NewPacketsThresholdExceeded(100, 60, 41, now),
		notification.NewFavoriteTransmitted(model.Host{Address: "1.1.1.1", Domain: "one.one.one.one"}, model.DataInfo{IncomingBytes: 1500}, now),
		notification.NewBytesThresholdExceeded(1000, 900, 200, now),
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(log.New(&buf, "", 0))
	if err := s.Write(sample()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[2026/10/18 08:30:00] packets threshold exceeded") {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestRowOf(t *testing.T) {
	ev := notification.NewBytesThresholdExceeded(1000, 900, 200, now)
	row, err := rowOf(ev)
	if err != nil {
		t.Fatalf("rowOf failed: %v", err)
	}
	if len(row) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(row))
	}
	if !row[0].(time.Time).Equal(now) || row[1].(string) != ev.ID || row[2].(string) != "bytes_threshold_exceeded" {
		t.Errorf("unexpected row %v", row)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(row[4].(string)), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["threshold"].(float64) != 1000 {
		t.Errorf("unexpected payload %v", payload)
	}
}

type recordingNotifier struct {
	subject, body string
	err           error
}

func (n *recordingNotifier) Send(subject, body string) error {
	n.subject, n.body = subject, body
	return n.err
}

func TestEmailSink(t *testing.T) {
	n := &recordingNotifier{}
	s := NewEmailSink(n)

	if err := s.Write(nil); err != nil || n.subject != "" {
		t.Fatalf("an empty batch must not send anything")
	}

	if err := s.Write(sample()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n.subject != "NetSentinel Notification Digest (3)" {
		t.Errorf("unexpected subject %q", n.subject)
	}
	for _, want := range []string{"<h2>Packets threshold (1)</h2>", "<h2>Favorite hosts (1)</h2>", "<strong>2026/10/18 08:30:00</strong>"} {
		if !strings.Contains(n.body, want) {
			t.Errorf("body does not contain %q:\n%s", want, n.body)
		}
	}

	n.err = errors.New("smtp down")
	if err := s.Write(sample()); err == nil {
		t.Error("expected the notifier error to be returned")
	}
}

func TestDigestOrder(t *testing.T) {
	d := Digest(sample())
	p := strings.Index(d, "## Packets threshold")
	b := strings.Index(d, "## Bytes threshold")
	f := strings.Index(d, "## Favorite hosts")
	if p < 0 || b < 0 || f < 0 || !(p < b && b < f) {
		t.Errorf("unexpected section order:\n%s", d)
	}
}
