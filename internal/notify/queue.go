// Package notify keeps transient user-facing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity shown to the user.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const DefaultTTL = 5 * time.Second

// Notification is one message. It is hidden once ExpiresAt passes.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Queue is safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	ttl   time.Duration
}

func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl}
}

// Push appends a notification created at now and returns it. Callers pass
// the same clock they later hand to List.
func (q *Queue) Push(now time.Time, level Level, message string) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	now = now.UTC()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}
	q.items = append(q.items, n)
	return n
}

// List returns the notifications still visible at now, oldest first, and
// drops the expired ones.
func (q *Queue) List(now time.Time) []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	live := q.items[:0]
	for _, n := range q.items {
		if now.Before(n.ExpiresAt) {
			live = append(live, n)
		}
	}
	q.items = live
	out := make([]Notification, len(live))
	copy(out, live)
	return out
}

// Dismiss removes a notification; it reports whether one was removed.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Drain returns every pending notification, expired or not, and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
