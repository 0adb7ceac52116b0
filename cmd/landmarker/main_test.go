package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/landmarker/internal/storage"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
)

const asciiQuad = `solid quad
facet normal 0 0 1
  outer loop
    vertex -1 -1 0
    vertex 1 -1 0
    vertex 1 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex -1 -1 0
    vertex 1 1 0
    vertex -1 1 0
  endloop
endfacet
endsolid quad
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTemplateCommand(t *testing.T) {
	out, err := execute(t, "template", "--model", "face")
	require.NoError(t, err)

	set, err := landmark.FromJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "face", set.ModelID())
	assert.Equal(t, 5, set.NGroups())
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	set, err := landmark.NewSet("face", []string{"nose"}, []int{2})
	require.NoError(t, err)
	set.InsertNewLandmark(geometry.NewVector3(1, 2, 3))
	data, err := json.Marshal(set)
	require.NoError(t, err)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, data, 0644))
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, `model "face", 1 group(s)`)
	assert.Contains(t, out, "1 / 2 placed")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version": 2, "groups": {}}`), 0644))
	_, err = execute(t, "validate", bad)
	assert.ErrorIs(t, err, landmark.ErrUnsupportedVersion)
}

func TestInfoAndRenderCommands(t *testing.T) {
	dir := t.TempDir()
	mesh := filepath.Join(dir, "quad.stl")
	require.NoError(t, os.WriteFile(mesh, []byte(asciiQuad), 0644))

	set, err := landmark.NewSet("quad", []string{"a"}, []int{2})
	require.NoError(t, err)
	set.InsertNewLandmark(geometry.NewVector3(0.5, 0.5, 0))
	set.InsertNewLandmark(geometry.NewVector3(0, 0, 1))
	data, err := json.Marshal(set)
	require.NoError(t, err)
	lm := filepath.Join(dir, "quad.json")
	require.NoError(t, os.WriteFile(lm, data, 0644))

	out, err := execute(t, "info", mesh, "--landmarks", lm)
	require.NoError(t, err)
	assert.Contains(t, out, "Model ID: quad")
	assert.Contains(t, out, "Triangles: 2")
	assert.Contains(t, out, "1 landmark(s) off the surface")

	png := filepath.Join(dir, "quad.png")
	out, err = execute(t, "render", mesh, "--landmarks", lm, "-o", png, "--width", "64", "--height", "48")
	require.NoError(t, err)
	assert.Contains(t, out, "(64x48)")
	_, err = os.Stat(png)
	assert.NoError(t, err)
}

func TestListCommand(t *testing.T) {
	ctx := context.Background()
	save := func(store storage.Store, ids ...string) {
		t.Helper()
		for _, id := range ids {
			set, err := landmark.Template("ibug68", id)
			require.NoError(t, err)
			require.NoError(t, store.Save(ctx, "ibug68", set))
		}
	}

	dir := t.TempDir()
	t.Setenv("LANDMARKER_STORAGE_DIR", dir)
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored ibug68 landmark sets")

	save(storage.NewFileStore(dir), "jaw", "face")
	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "face\njaw\n", out)

	db := filepath.Join(t.TempDir(), "landmarks.db")
	sqlite, err := storage.OpenSQLite(db)
	require.NoError(t, err)
	save(sqlite, "skull")
	require.NoError(t, sqlite.Close())

	t.Setenv("LANDMARKER_STORAGE_BACKEND", "sqlite")
	t.Setenv("LANDMARKER_STORAGE_SQLITEPATH", db)
	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "skull\n", out)
}
