// Package storage persists landmark sets keyed by model ID and landmark
// type.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/pkg/landmark"
)

var (
	// ErrNotFound is returned by Load when no set is stored for the key
	ErrNotFound = errors.New("landmark set not found")
	// ErrCorrupt is returned by Load when the stored set cannot be decoded
	ErrCorrupt = errors.New("stored landmark set is unreadable")
)

// Store is the interface all storage implementations must satisfy
type Store interface {
	Load(ctx context.Context, modelID, landmarkType string) (*landmark.Set, error)
	Save(ctx context.Context, landmarkType string, set *landmark.Set) error
	// Models lists the model IDs with a stored set of the type, sorted
	Models(ctx context.Context, landmarkType string) ([]string, error)
	Close() error
}

// New creates a store based on configuration. fallbackDir is used by the
// file backend when no directory is configured.
func New(cfg config.StorageConfig, fallbackDir string) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			dir = fallbackDir
		}
		return NewFileStore(dir), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func decode(data []byte) (*landmark.Set, error) {
	set, err := landmark.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return set, nil
}
