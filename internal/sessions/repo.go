package sessions

import (
	"context"
	"time"
)

// Repo holds sessions. Documents are never written to durable storage.
type Repo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, ownerID, sessionID string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, ownerID, sessionID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Session, error)
	// Sweep drops sessions idle longer than the TTL and returns their ids.
	Sweep(now time.Time) []string
}
