package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/philipparndt/landmarker/internal/storage"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/openscad"
	"github.com/philipparndt/landmarker/pkg/stl"
)

// Source is a loaded mesh with the files it was built from
type Source struct {
	Path    string
	Model   *stl.Model
	Watched []string
}

// LoadMesh loads an STL file, or renders an OpenSCAD file to STL first.
// The model ID is always derived from path.
func LoadMesh(ctx context.Context, path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl":
		model, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return &Source{Path: path, Model: model, Watched: []string{path}}, nil

	case ".scad":
		conv, err := openscad.NewConverter()
		if err != nil {
			return nil, err
		}
		deps, err := openscad.Dependencies(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
		}
		tmp, err := conv.ConvertTemp(ctx, path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)

		model, err := stl.Parse(tmp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
		}
		base := filepath.Base(path)
		model.ID = strings.TrimSuffix(base, filepath.Ext(base))
		model.Name = model.ID
		return &Source{Path: path, Model: model, Watched: deps}, nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl or .scad)", ext)
	}
}

// LoadLandmarks returns the stored set for the model, or the empty
// template of the landmark type when none is stored yet or the stored set
// is unreadable. The boolean reports whether the set came from the store.
// An unreadable set is left in place until the user saves.
func LoadLandmarks(ctx context.Context, store storage.Store, modelID, landmarkType string, logger zerolog.Logger) (*landmark.Set, bool, error) {
	set, err := store.Load(ctx, modelID, landmarkType)
	switch {
	case err == nil:
		return set, true, nil
	case errors.Is(err, storage.ErrCorrupt):
		logger.Warn().Err(err).Str("model", modelID).Str("type", landmarkType).
			Msg("stored landmarks are unreadable, starting from template")
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}
	set, err = landmark.Template(landmarkType, modelID)
	if err != nil {
		return nil, false, err
	}
	return set, false, nil
}
