package exports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps export records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Export
	byOwner map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Export),
		byOwner: make(map[string][]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; !ok {
		r.byOwner[e.OwnerID] = append(r.byOwner[e.OwnerID], e.ID)
	}
	r.byID[e.ID] = e
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[exportID]
	if !ok {
		return Export{}, ErrNotFound
	}
	if e.OwnerID != ownerID {
		return Export{}, ErrForbidden
	}
	return e, nil
}

// ListByOwner returns the owner's exports newest first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	r.mu.RLock()
	out := make([]Export, 0, len(r.byOwner[ownerID]))
	for _, id := range r.byOwner[ownerID] {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Export{}, nil
	}
	end := min(offset+limit, len(out))
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
