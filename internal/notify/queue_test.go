package notify

import (
	"testing"
	"time"
)

func TestPushAndListExpires(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q := NewQueue(5 * time.Second)
	first := q.Push(start, LevelError, "Export failed")
	q.Push(start.Add(3*time.Second), LevelInfo, "Template selected")

	got := q.List(start.Add(4 * time.Second))
	if len(got) != 2 || got[0].ID != first.ID {
		t.Fatalf("expected both notifications oldest first, got %+v", got)
	}
	got = q.List(start.Add(6 * time.Second))
	if len(got) != 1 || got[0].Message != "Template selected" {
		t.Fatalf("expected first notification expired, got %+v", got)
	}
}

func TestPushUsesCallerClock(t *testing.T) {
	// A clock far from wall time must still govern expiry.
	at := time.Date(2001, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))
	q := NewQueue(time.Second)
	n := q.Push(at, LevelInfo, "saved")
	if !n.CreatedAt.Equal(at) || n.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected CreatedAt %s in UTC, got %s", at, n.CreatedAt)
	}
	if !n.ExpiresAt.Equal(at.Add(time.Second)) {
		t.Fatalf("expected ExpiresAt one ttl after push, got %s", n.ExpiresAt)
	}
	if got := q.List(at.Add(500 * time.Millisecond)); len(got) != 1 {
		t.Fatalf("expected notification visible within ttl, got %+v", got)
	}
	if got := q.List(at.Add(time.Second)); len(got) != 0 {
		t.Fatalf("expected notification expired at ttl, got %+v", got)
	}
}

func TestDismiss(t *testing.T) {
	now := time.Now()
	q := NewQueue(time.Minute)
	n := q.Push(now, LevelInfo, "hi")
	if !q.Dismiss(n.ID) {
		t.Fatalf("expected dismiss to remove notification")
	}
	if q.Dismiss(n.ID) {
		t.Fatalf("second dismiss should report false")
	}
	if len(q.List(now)) != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestDrain(t *testing.T) {
	now := time.Now()
	q := NewQueue(0)
	if q.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %s", q.ttl)
	}
	q.Push(now, LevelSuccess, "a")
	q.Push(now, LevelSuccess, "b")
	if got := q.Drain(); len(got) != 2 {
		t.Fatalf("expected 2 drained, got %d", len(got))
	}
	if got := q.Drain(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil drain, got %#v", got)
	}
}
