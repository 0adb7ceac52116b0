package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/storage"
	"github.com/philipparndt/landmarker/pkg/landmark"
)

// loadLandmarks reads the set from file when given, otherwise from the
// configured store. A nil set without error means nothing is stored.
func loadLandmarks(ctx context.Context, file, meshPath, modelID string) (*landmark.Set, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read landmarks: %w", err)
		}
		return landmark.FromJSON(data)
	}

	store, err := storage.New(config.Storage(), filepath.Dir(meshPath))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	set, err := store.Load(ctx, modelID, config.GetString("landmarkType"))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return set, err
}
