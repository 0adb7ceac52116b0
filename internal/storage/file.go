package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/philipparndt/landmarker/pkg/landmark"
)

// FileStore keeps one JSON file per model and landmark type in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates a store writing to dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file a set is stored in
func (s *FileStore) Path(modelID, landmarkType string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s.json", modelID, landmarkType))
}

// Load reads a landmark set
func (s *FileStore) Load(_ context.Context, modelID, landmarkType string) (*landmark.Set, error) {
	data, err := os.ReadFile(s.Path(modelID, landmarkType))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read landmarks: %w", err)
	}
	return decode(data)
}

// Models lists the models with a file of the landmark type in the
// directory
func (s *FileStore) Models(_ context.Context, landmarkType string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list landmarks: %w", err)
	}
	suffix := "." + landmarkType + ".json"
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), suffix))
	}
	slices.Sort(ids)
	return ids, nil
}

// Save writes the set, replacing the file atomically
func (s *FileStore) Save(_ context.Context, landmarkType string, set *landmark.Set) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode landmarks: %w", err)
	}

	path := s.Path(set.ModelID(), landmarkType)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create landmark directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write landmarks: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace landmarks: %w", err)
	}
	return nil
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}
