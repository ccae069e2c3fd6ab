package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-builder/internal/shared/storage/object"
)

// Store keeps artifacts under a directory on disk.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the artifact through a temp file so a crash never leaves a
// partial export behind.
func (s *Store) Save(ctx context.Context, ownerID string, obj object.Object) (object.Stored, error) {
	if err := ctx.Err(); err != nil {
		return object.Stored{}, err
	}
	key, err := object.NewKey(ownerID, obj.Name)
	if err != nil {
		return object.Stored{}, err
	}

	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return object.Stored{}, fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".export-*")
	if err != nil {
		return object.Stored{}, fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(obj.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return object.Stored{}, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return object.Stored{}, fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return object.Stored{}, fmt.Errorf("publish artifact: %w", err)
	}

	return object.Stored{
		Key:         key,
		SizeBytes:   int64(len(obj.Body)),
		ContentType: object.ContentType(obj.ContentType, obj.Body),
	}, nil
}

func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key %q", storageKey)
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

var _ object.ObjectStore = (*Store)(nil)
