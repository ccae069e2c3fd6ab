package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-builder/internal/notify"
)

type memoryEntry struct {
	session  Session
	lastSeen time.Time
}

// MemoryRepo stores sessions in memory with an idle TTL.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]*memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo. A ttl <= 0 disables expiry.
func NewMemoryRepo(ttl time.Duration) *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]*memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Notifications == nil {
		s.Notifications = notify.NewQueue(0)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = &memoryEntry{session: s.clone(), lastSeen: r.now()}
	return nil
}

// Get returns a copy of the session and marks it as seen.
func (r *MemoryRepo) Get(ctx context.Context, ownerID, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(ownerID, sessionID)
	if err != nil {
		return Session{}, err
	}
	e.lastSeen = r.now()
	return e.session.clone(), nil
}

func (r *MemoryRepo) Save(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(s.OwnerID, s.ID)
	if err != nil {
		return err
	}
	e.session = s.clone()
	e.lastSeen = r.now()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(ownerID, sessionID); err != nil {
		return err
	}
	delete(r.byID, sessionID)
	return nil
}

// ListByOwner returns the owner's live sessions, most recently updated first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	now := r.now()
	out := []Session{}
	for _, e := range r.byID {
		if e.session.OwnerID == ownerID && !r.expired(e, now) {
			out = append(out, e.session.clone())
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Sweep(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []string
	for id, e := range r.byID {
		if r.expired(e, now) {
			delete(r.byID, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// lookup must be called with mu held. Expired entries are dropped.
func (r *MemoryRepo) lookup(ownerID, sessionID string) (*memoryEntry, error) {
	e, ok := r.byID[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if r.expired(e, r.now()) {
		delete(r.byID, sessionID)
		return nil, ErrNotFound
	}
	if e.session.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return e, nil
}

func (r *MemoryRepo) expired(e *memoryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

var _ Repo = (*MemoryRepo)(nil)
