// Package viewport implements the mouse interaction of the landmarking
// view: camera control, landmark selection and dragging, click to insert,
// click to deselect and shift-drag box selection.
package viewport

import (
	"github.com/rs/zerolog"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/dispatch"
	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/picking"
)

// Mode is the gesture classified at pointer down
type Mode int

const (
	ModeIdle Mode = iota
	ModeCamera
	ModeLandmarkPress
	ModeMeshPress
	ModeBackgroundPress
	ModeBoxSelect
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCamera:
		return "camera"
	case ModeLandmarkPress:
		return "landmark-press"
	case ModeMeshPress:
		return "mesh-press"
	case ModeBackgroundPress:
		return "background-press"
	case ModeBoxSelect:
		return "box-select"
	}
	return "unknown"
}

// Picker is the hit testing the controller relies on
type Picker interface {
	Intersect(screen geometry.Vector2, targets ...picking.Target) []picking.Hit
	IntersectRay(ray geometry.Ray, targets ...picking.Target) []picking.Hit
	Project(world geometry.Vector3) (geometry.Vector2, bool)
	Eye() geometry.Vector3
}

// CameraControl is the orbit camera the controller forwards unclaimed
// input to
type CameraControl interface {
	MouseDown(ev input.MouseEvent) bool
	MouseMove(ev input.MouseEvent) bool
	MouseUp(ev input.MouseEvent) bool
	Wheel(steps float64)
	Enable()
	Disable()
}

// Renderer redraws the viewport
type Renderer interface {
	RequestRedraw()
}

// Overlay draws the 2D box selection rectangle over the viewport
type Overlay interface {
	DrawSelectionRect(r SelectionRect)
	ClearOverlay()
}

// Controller is the viewport mouse state machine. At most one gesture is
// live; events arriving while a gesture runs belong to it. All methods
// must be called from the UI goroutine.
type Controller struct {
	picker   Picker
	scene    *picking.Scene
	camera   CameraControl
	events   *dispatch.Dispatcher
	renderer Renderer
	overlay  Overlay
	logger   zerolog.Logger
	cfg      config.ViewportConfig

	gesture *gesture
}

// gesture is the state of one press-move-release sequence
type gesture struct {
	mode Mode
	down input.MouseEvent

	// landmark press
	pressed     landmark.Entry
	wasSelected bool
	multi       bool
	plane       geometry.Plane
	prevLocal   geometry.Vector3
	moved       bool
	origins     map[*landmark.Landmark]geometry.Vector3

	// mesh press
	meshHit picking.Hit
}

// NewController wires the state machine. renderer and overlay may be nil.
func NewController(
	picker Picker,
	scene *picking.Scene,
	camera CameraControl,
	events *dispatch.Dispatcher,
	renderer Renderer,
	overlay Overlay,
	cfg config.ViewportConfig,
	logger zerolog.Logger,
) *Controller {
	c := &Controller{
		picker:   picker,
		scene:    scene,
		camera:   camera,
		events:   events,
		renderer: renderer,
		overlay:  overlay,
		cfg:      cfg,
		logger:   logger,
	}
	// a bulk update ends with one redraw
	events.On(dispatch.BatchRenderChanged, func(e dispatch.Event) {
		if on, _ := e.Payload.(bool); !on {
			c.redraw()
		}
	})
	return c
}

// Scene returns the pickable scene
func (c *Controller) Scene() *picking.Scene {
	return c.scene
}

// Set returns the landmark set being edited
func (c *Controller) Set() *landmark.Set {
	return c.scene.Set
}

// SetMesh replaces the mesh, for example after the file was reloaded
func (c *Controller) SetMesh(mesh *picking.Mesh) {
	c.cancelGesture()
	c.scene.Mesh = mesh
	c.events.Emit(dispatch.MeshChanged, mesh)
	c.redraw()
}

// SetLandmarks replaces the landmark set. Any running gesture is dropped.
func (c *Controller) SetLandmarks(set *landmark.Set) {
	c.cancelGesture()
	c.scene.Set = set
	c.events.Emit(dispatch.LandmarksChanged, set)
	c.redraw()
}

// Mode returns the mode of the live gesture
func (c *Controller) Mode() Mode {
	if c.gesture == nil {
		return ModeIdle
	}
	return c.gesture.mode
}

// MouseDown classifies the press and starts a gesture
func (c *Controller) MouseDown(ev input.MouseEvent) {
	if c.gesture != nil {
		return
	}
	if c.scene.Set == nil || ev.Button != input.ButtonPrimary {
		c.startCamera(ev)
		return
	}

	if ev.Has(input.ModShift) {
		c.startBoxSelect(ev)
		return
	}

	lmHits := c.picker.Intersect(ev.Position, c.scene.Symbols())
	meshHits := c.picker.Intersect(ev.Position, c.scene.MeshTarget())

	switch {
	case len(lmHits) > 0 && (len(meshHits) == 0 || lmHits[0].Distance < meshHits[0].Distance):
		c.startLandmarkPress(ev, lmHits[0])
	case len(meshHits) > 0:
		c.startMeshPress(ev, meshHits[0])
	default:
		c.startBackgroundPress(ev)
	}
	c.logger.Debug().Stringer("mode", c.gesture.mode).
		Float64("x", ev.Position.X).Float64("y", ev.Position.Y).
		Msg("pointer down")
}

// MouseMove continues the live gesture
func (c *Controller) MouseMove(ev input.MouseEvent) {
	g := c.gesture
	if g == nil {
		return
	}
	switch g.mode {
	case ModeLandmarkPress:
		c.dragLandmarks(ev)
	case ModeBoxSelect:
		if c.overlay != nil {
			c.overlay.DrawSelectionRect(NewSelectionRect(g.down.Position, ev.Position))
		}
	default:
		c.camera.MouseMove(ev)
	}
}

// MouseUp finishes the live gesture and returns to idle
func (c *Controller) MouseUp(ev input.MouseEvent) {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil

	dist := g.down.Position.Distance(ev.Position)
	click := dist < c.cfg.DragThreshold

	switch g.mode {
	case ModeLandmarkPress:
		c.camera.Enable()
		c.releaseLandmark(g, click)
	case ModeBoxSelect:
		c.camera.Enable()
		c.releaseBoxSelect(g, ev)
	case ModeMeshPress:
		c.camera.MouseUp(ev)
		if click {
			c.insertAt(g.meshHit)
		}
	case ModeBackgroundPress:
		c.camera.MouseUp(ev)
		if click {
			c.scene.Set.DeselectAll()
			c.selectionChanged()
		}
	default:
		c.camera.MouseUp(ev)
	}
}

// cancelGesture drops the live gesture without committing it. Drag motion
// is rolled back and camera input is handed back.
func (c *Controller) cancelGesture() {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil

	switch g.mode {
	case ModeLandmarkPress:
		if g.moved {
			c.rollback(c.scene.Set.SelectedLandmarks(), g.origins)
		}
		c.camera.Enable()
	case ModeBoxSelect:
		if c.overlay != nil {
			c.overlay.ClearOverlay()
		}
		c.camera.Enable()
	default:
		c.camera.MouseUp(g.down)
	}
	c.logger.Debug().Stringer("mode", g.mode).Msg("gesture cancelled")
}

// Wheel zooms the camera unless a landmark or box gesture owns the input
func (c *Controller) Wheel(steps float64) {
	if g := c.gesture; g != nil && (g.mode == ModeLandmarkPress || g.mode == ModeBoxSelect) {
		return
	}
	c.camera.Wheel(steps)
}

func (c *Controller) startCamera(ev input.MouseEvent) {
	c.gesture = &gesture{mode: ModeCamera, down: ev}
	c.camera.MouseDown(ev)
}

func (c *Controller) startMeshPress(ev input.MouseEvent, hit picking.Hit) {
	c.gesture = &gesture{mode: ModeMeshPress, down: ev, meshHit: hit}
	// a press that turns into a drag orbits the camera
	c.camera.MouseDown(ev)
}

func (c *Controller) startBackgroundPress(ev input.MouseEvent) {
	c.gesture = &gesture{mode: ModeBackgroundPress, down: ev}
	c.camera.MouseDown(ev)
}

func (c *Controller) startBoxSelect(ev input.MouseEvent) {
	c.camera.Disable()
	c.gesture = &gesture{mode: ModeBoxSelect, down: ev}
	c.logger.Debug().Stringer("mode", ModeBoxSelect).Msg("pointer down")
}

func (c *Controller) insertAt(hit picking.Hit) {
	set := c.scene.Set
	ins, ok := set.InsertNewLandmark(hit.Local)
	if !ok {
		c.logger.Info().Str("group", set.ActiveLabel()).Msg("group is full, no landmark inserted")
		return
	}
	entry := landmark.Entry{Label: ins.Group.Label(), Index: ins.Index, Landmark: ins.Landmark}
	c.events.Emit(dispatch.LandmarksChanged, entry)
	if c.cfg.AutoSnapshot {
		c.snapshot(entry.Label)
	}
	c.redraw()
}

// historyChanged announces a restored history state. Restored groups carry
// the selection they had when the snapshot was taken.
func (c *Controller) historyChanged() {
	c.events.Emit(dispatch.LandmarksChanged, c.scene.Set)
	c.selectionChanged()
}

// Undo steps the history back. It does nothing while a gesture is live.
func (c *Controller) Undo() bool {
	if c.gesture != nil {
		c.logger.Debug().Stringer("mode", c.gesture.mode).Msg("undo ignored during gesture")
		return false
	}
	p, ok := c.scene.Set.Undo()
	if !ok {
		c.logger.Debug().Msg("nothing to undo")
		return false
	}
	c.logger.Debug().Int("pointer", p).Msg("undo")
	c.historyChanged()
	return true
}

// Redo steps the history forward. It does nothing while a gesture is live.
func (c *Controller) Redo() bool {
	if c.gesture != nil {
		c.logger.Debug().Stringer("mode", c.gesture.mode).Msg("redo ignored during gesture")
		return false
	}
	p, ok := c.scene.Set.Redo()
	if !ok {
		c.logger.Debug().Msg("nothing to redo")
		return false
	}
	c.logger.Debug().Int("pointer", p).Msg("redo")
	c.historyChanged()
	return true
}

// Snapshot checkpoints the active group
func (c *Controller) Snapshot() {
	c.snapshot("")
}

func (c *Controller) snapshot(label string) {
	if err := c.scene.Set.SnapshotGroup(label); err != nil {
		c.logger.Error().Err(err).Str("group", label).Msg("snapshot failed")
	}
}

func (c *Controller) selectionChanged() {
	c.events.Emit(dispatch.SelectionChanged, c.scene.Set.SelectedLandmarks())
	c.redraw()
}

// redraw asks for a frame unless rendering is batched
func (c *Controller) redraw() {
	if c.renderer == nil || c.events.IsBatchRenderEnabled() {
		return
	}
	c.renderer.RequestRedraw()
}
