// Package app is the desktop landmarking window: it loads a mesh and its
// landmark set, shows the interactive viewport and saves edits back to the
// landmark store.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"

	"github.com/philipparndt/landmarker/internal/broadcast"
	"github.com/philipparndt/landmarker/internal/camera"
	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/dispatch"
	"github.com/philipparndt/landmarker/internal/storage"
	"github.com/philipparndt/landmarker/internal/viewport"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/picking"
	"github.com/philipparndt/landmarker/pkg/render"
	"github.com/philipparndt/landmarker/pkg/watcher"
)

// Options configure the window
type Options struct {
	MeshPath      string
	LandmarkType  string
	Viewport      config.ViewportConfig
	Storage       config.StorageConfig
	Broadcast     config.BroadcastConfig
	WatchDebounce time.Duration
	Logger        zerolog.Logger
}

// App holds the running window and its components
type App struct {
	opts   Options
	logger zerolog.Logger

	window fyne.Window
	events *dispatch.Dispatcher
	store  storage.Store

	source *Source
	camCtl *camera.Controller
	ctrl   *viewport.Controller
	view   *Viewport
	panel  *panel
}

// Run loads the mesh and landmarks and shows the window until it is
// closed
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	logger := opts.Logger

	source, err := LoadMesh(ctx, opts.MeshPath)
	if err != nil {
		return err
	}
	logger.Info().Str("model", source.Model.ID).Int("triangles", source.Model.TriangleCount()).Msg("mesh loaded")

	store, err := storage.New(opts.Storage, filepath.Dir(opts.MeshPath))
	if err != nil {
		return err
	}
	defer store.Close()

	set, stored, err := LoadLandmarks(ctx, store, source.Model.ID, opts.LandmarkType, logger)
	if err != nil {
		return fmt.Errorf("failed to load landmarks: %w", err)
	}
	if !stored {
		logger.Info().Str("type", opts.LandmarkType).Msg("no stored landmarks, starting from template")
	}

	a := &App{
		opts:   opts,
		logger: logger,
		events: dispatch.New(logger),
		store:  store,
		source: source,
	}

	// the mesh is normalized into the unit sphere
	mesh := picking.NormalizedMesh(source.Model)
	scene := picking.NewScene(mesh, set, opts.Viewport.LandmarkScale)
	cam := picking.NewCamera(geometry.BoundingSphere{Radius: 1},
		float64(opts.Viewport.Width), float64(opts.Viewport.Height))

	renderer, err := render.New(render.DefaultOptions())
	if err != nil {
		return err
	}
	a.view = NewViewport(cam, scene, renderer)
	a.camCtl = camera.New(cam, a.view.RequestRedraw)
	a.ctrl = viewport.NewController(picking.NewPicker(cam), scene, a.camCtl, a.events,
		a.view, a.view, opts.Viewport, logger)
	a.view.SetController(a.ctrl)

	fa := fyneapp.NewWithID("io.github.philipparndt.landmarker")
	a.window = fa.NewWindow(fmt.Sprintf("Landmarker - %s", source.Model.ID))

	a.panel = newPanel(a)
	a.panel.showModel(source.Model)
	a.panel.bind(set)
	for _, name := range []string{dispatch.LandmarksChanged, dispatch.SelectionChanged} {
		a.events.On(name, func(dispatch.Event) {
			if !a.events.IsBatchRenderEnabled() {
				a.panel.refresh()
			}
		})
	}

	a.window.SetContent(container.NewBorder(nil, nil, nil, a.panel.content, a.view))
	a.registerShortcuts()

	if opts.Broadcast.Enabled {
		a.startBroadcast(ctx)
	}
	if err := a.startWatcher(ctx); err != nil {
		logger.Warn().Err(err).Msg("file watching disabled")
	}

	a.window.Resize(fyne.NewSize(float32(opts.Viewport.Width)+280, float32(opts.Viewport.Height)))
	a.window.ShowAndRun()
	return nil
}

func (a *App) registerShortcuts() {
	c := a.window.Canvas()
	shortcut := fyne.KeyModifierShortcutDefault

	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: shortcut}, func(fyne.Shortcut) {
		a.ctrl.Undo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: shortcut | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		a.ctrl.Redo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: shortcut}, func(fyne.Shortcut) {
		a.ctrl.Redo()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: shortcut}, func(fyne.Shortcut) {
		a.save()
	})
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeySpace {
			a.ctrl.Snapshot()
			a.panel.refresh()
		}
	})
}

func (a *App) save() {
	set := a.ctrl.Set()
	if err := a.store.Save(context.Background(), a.opts.LandmarkType, set); err != nil {
		a.logger.Error().Err(err).Msg("failed to save landmarks")
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.Info().Str("model", set.ModelID()).Msg("landmarks saved")
	a.panel.setStatus("Saved %s at %s", set.ModelID(), time.Now().Format(time.TimeOnly))
}

func (a *App) startBroadcast(ctx context.Context) {
	hub := broadcast.NewHub(a.logger)
	hub.Attach(a.events, a.ctrl.Set)
	go hub.Run(ctx)
	go func() {
		if err := hub.ListenAndServe(ctx, a.opts.Broadcast.Address); err != nil {
			a.logger.Error().Err(err).Msg("broadcast server stopped")
		}
	}()
	// clients connecting later receive the current set
	a.events.Emit(dispatch.LandmarksChanged, a.ctrl.Set())
}

// startWatcher reloads the mesh when its source files change. Landmarks
// are kept since they live in the mesh's own coordinates.
func (a *App) startWatcher(ctx context.Context) error {
	fw, err := watcher.New(a.opts.WatchDebounce, a.logger)
	if err != nil {
		return err
	}
	if err := fw.Add(a.source.Watched...); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()
		fw.Run(ctx, func(path string) {
			a.logger.Info().Str("file", path).Msg("reloading mesh")
			source, err := LoadMesh(ctx, a.opts.MeshPath)
			if err != nil {
				a.logger.Error().Err(err).Msg("failed to reload mesh")
				fyne.Do(func() { a.panel.setStatus("Reload failed: %v", err) })
				return
			}
			if err := fw.Replace(source.Watched...); err != nil {
				a.logger.Warn().Err(err).Msg("failed to update watched files")
			}
			fyne.Do(func() {
				a.source = source
				a.ctrl.SetMesh(picking.NormalizedMesh(source.Model))
				a.panel.showModel(source.Model)
				a.panel.setStatus("Reloaded %s", filepath.Base(path))
			})
		})
	}()
	return nil
}
