package exports

import "context"

// Repo persists export records.
type Repo interface {
	Create(ctx context.Context, e Export) error
	GetByID(ctx context.Context, ownerID, exportID string) (Export, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Export, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
