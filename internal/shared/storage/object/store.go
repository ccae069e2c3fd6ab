package object

import (
	"context"
	"io"
)

// Object is a finished export artifact ready to persist.
type Object struct {
	// Name is the download name; it becomes the last key segment.
	Name        string
	ContentType string
	Body        []byte
}

// Stored describes a saved object.
type Stored struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore keeps export artifacts. Keys are namespaced by a hash of the
// owner id.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, obj Object) (Stored, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
