package viewport

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/landmarker/internal/camera"
	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/dispatch"
	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/picking"
)

type countingRenderer struct {
	redraws int
}

func (r *countingRenderer) RequestRedraw() {
	r.redraws++
}

type recordingOverlay struct {
	rects   []SelectionRect
	cleared int
}

func (o *recordingOverlay) DrawSelectionRect(r SelectionRect) {
	o.rects = append(o.rects, r)
}

func (o *recordingOverlay) ClearOverlay() {
	o.cleared++
}

type fixture struct {
	t        *testing.T
	set      *landmark.Set
	cam      *picking.Camera
	camera   *camera.Controller
	picker   *picking.Picker
	events   *dispatch.Dispatcher
	renderer *countingRenderer
	overlay  *recordingOverlay
	ctrl     *Controller

	landmarkEvents int
}

func unitQuad() []geometry.Triangle {
	n := geometry.NewVector3(0, 0, 1)
	return []geometry.Triangle{
		geometry.NewTriangle(n, geometry.NewVector3(-1, -1, 0), geometry.NewVector3(1, -1, 0), geometry.NewVector3(1, 1, 0)),
		geometry.NewTriangle(n, geometry.NewVector3(-1, -1, 0), geometry.NewVector3(1, 1, 0), geometry.NewVector3(-1, 1, 0)),
	}
}

// newFixture builds a camera at z=3 looking down -Z at a 2x2 quad in the
// z=0 plane, on a 200x200 viewport
func newFixture(t *testing.T) *fixture {
	t.Helper()
	set, err := landmark.NewSet("quad", []string{"left", "right"}, []int{3, 3})
	require.NoError(t, err)

	cam := &picking.Camera{
		Position: geometry.NewVector3(0, 0, 3),
		Target:   geometry.NewVector3(0, 0, 0),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      math.Pi / 4,
		Distance: 3,
		Width:    200,
		Height:   200,
	}
	f := &fixture{
		t:        t,
		set:      set,
		cam:      cam,
		camera:   camera.New(cam, nil),
		picker:   picking.NewPicker(cam),
		events:   dispatch.New(zerolog.Nop()),
		renderer: &countingRenderer{},
		overlay:  &recordingOverlay{},
	}
	f.events.On(dispatch.LandmarksChanged, func(dispatch.Event) { f.landmarkEvents++ })

	scene := picking.NewScene(picking.NewMesh(unitQuad(), geometry.Identity()), set, 0.05)
	cfg := config.ViewportConfig{
		DragThreshold: 2,
		PlaneOffset:   0.1,
		LandmarkScale: 0.05,
		AutoSnapshot:  true,
	}
	f.ctrl = NewController(f.picker, scene, f.camera, f.events, f.renderer, f.overlay, cfg, zerolog.Nop())
	return f
}

func (f *fixture) place(label string, p geometry.Vector3) *landmark.Landmark {
	f.t.Helper()
	require.NoError(f.t, f.set.SetActiveGroup(label))
	ins, ok := f.set.InsertNewLandmark(p)
	require.True(f.t, ok)
	return ins.Landmark
}

func (f *fixture) screen(p geometry.Vector3) geometry.Vector2 {
	s, ok := f.picker.Project(p)
	require.True(f.t, ok)
	return s
}

func event(pos geometry.Vector2, mods input.Modifier) input.MouseEvent {
	return input.MouseEvent{Position: pos, Button: input.ButtonPrimary, Modifiers: mods}
}

func offset(p geometry.Vector2, dx, dy float64) geometry.Vector2 {
	return geometry.NewVector2(p.X+dx, p.Y+dy)
}

func (f *fixture) click(pos geometry.Vector2, mods input.Modifier) {
	f.ctrl.MouseDown(event(pos, mods))
	f.ctrl.MouseUp(event(pos, mods))
}

func (f *fixture) drag(from, to geometry.Vector2, mods input.Modifier) {
	f.ctrl.MouseDown(event(from, mods))
	f.ctrl.MouseMove(event(to, mods))
	f.ctrl.MouseUp(event(to, mods))
}

func pointOf(t *testing.T, lm *landmark.Landmark) geometry.Vector3 {
	t.Helper()
	p, ok := lm.Point()
	require.True(t, ok)
	return p
}

func TestClickOnMeshInsertsLandmark(t *testing.T) {
	f := newFixture(t)
	target := geometry.NewVector3(0.3, -0.2, 0)

	f.click(f.screen(target), 0)

	lm := f.set.Group("left").Landmark(0)
	assert.True(t, pointOf(t, lm).ApproxEqual(target, 1e-9))
	assert.Equal(t, ModeIdle, f.ctrl.Mode())
	assert.Len(t, f.set.History(), 1)
	assert.Equal(t, 1, f.landmarkEvents)
	assert.Positive(t, f.renderer.redraws)
}

func TestDragOnMeshOrbitsInsteadOfInserting(t *testing.T) {
	f := newFixture(t)
	start := f.screen(geometry.NewVector3(0.3, -0.2, 0))

	f.drag(start, offset(start, 10, 0), 0)

	assert.Equal(t, 3, f.set.Group("left").NEmpty())
	assert.NotZero(t, f.cam.RotationY)
}

func TestInsertIntoFullGroupIsNoop(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.place("left", geometry.NewVector3(-0.8+0.1*float64(i), -0.8, 0))
	}

	f.click(f.screen(geometry.NewVector3(0.5, 0.3, 0)), 0)

	assert.Equal(t, "left", f.set.ActiveLabel())
	assert.Equal(t, 3, f.set.Group("right").NEmpty())
	assert.Empty(t, f.set.History())
}

func TestClickOnBackgroundDeselectsAll(t *testing.T) {
	f := newFixture(t)
	a := f.place("left", geometry.NewVector3(0.2, 0.1, 0))
	b := f.place("right", geometry.NewVector3(-0.3, 0.4, 0))
	a.Select()
	b.Select()

	f.drag(geometry.NewVector2(5, 5), geometry.NewVector2(15, 5), 0)
	assert.True(t, a.IsSelected(), "a drag on the background keeps the selection")

	f.click(geometry.NewVector2(5, 5), 0)
	assert.Empty(t, f.set.SelectedLandmarks())
}

func TestLandmarkPressSelectsExclusively(t *testing.T) {
	f := newFixture(t)
	a := f.place("left", geometry.NewVector3(0.2, 0.1, 0))
	b := f.place("right", geometry.NewVector3(-0.3, 0.4, 0))
	a.Select()
	require.NoError(t, f.set.SetActiveGroup("left"))

	f.click(f.screen(geometry.NewVector3(-0.3, 0.4, 0)), 0)

	assert.False(t, a.IsSelected())
	assert.True(t, b.IsSelected())
	assert.Equal(t, "right", f.set.ActiveLabel())
}

func TestMultiSelectModifier(t *testing.T) {
	f := newFixture(t)
	a := f.place("left", geometry.NewVector3(0.2, 0.1, 0))
	b := f.place("left", geometry.NewVector3(-0.3, 0.4, 0))
	a.Select()
	posB := f.screen(geometry.NewVector3(-0.3, 0.4, 0))
	posA := f.screen(geometry.NewVector3(0.2, 0.1, 0))

	// ctrl adds to the selection
	f.click(posB, input.ModControl)
	assert.True(t, a.IsSelected())
	assert.True(t, b.IsSelected())

	// a plain click on a selected landmark keeps the others
	f.click(posA, 0)
	assert.True(t, a.IsSelected())
	assert.True(t, b.IsSelected())

	// ctrl click on a selected landmark toggles it off
	f.click(posB, input.ModControl)
	assert.True(t, a.IsSelected())
	assert.False(t, b.IsSelected())
}

func TestNearerHitWins(t *testing.T) {
	f := newFixture(t)
	hidden := f.place("left", geometry.NewVector3(0.1, 0.2, -0.3))
	pos := f.screen(geometry.NewVector3(0.1, 0.2, -0.3))

	f.ctrl.MouseDown(event(pos, 0))
	assert.Equal(t, ModeMeshPress, f.ctrl.Mode())
	f.ctrl.MouseUp(event(pos, 0))

	assert.False(t, hidden.IsSelected())
	inserted := pointOf(t, f.set.Group("left").Landmark(1))
	assert.InDelta(t, 0, inserted.Z, 1e-9)

	// floating in front of the mesh the landmark wins
	front := f.place("right", geometry.NewVector3(-0.5, -0.5, 0.3))
	f.ctrl.MouseDown(event(f.screen(geometry.NewVector3(-0.5, -0.5, 0.3)), 0))
	assert.Equal(t, ModeLandmarkPress, f.ctrl.Mode())
	assert.True(t, front.IsSelected())
}

func TestOnlyOneGestureIsLive(t *testing.T) {
	f := newFixture(t)
	lm := f.place("left", geometry.NewVector3(0.2, 0.1, 0))

	f.ctrl.MouseDown(event(geometry.NewVector2(5, 5), 0))
	f.ctrl.MouseDown(event(f.screen(geometry.NewVector3(0.2, 0.1, 0)), 0))

	assert.Equal(t, ModeBackgroundPress, f.ctrl.Mode())
	assert.False(t, lm.IsSelected())
}

func TestDragMovesSelectionRigidlyAndResnaps(t *testing.T) {
	f := newFixture(t)
	a := f.place("left", geometry.NewVector3(0.2, 0.1, 0))
	b := f.place("right", geometry.NewVector3(-0.3, 0.4, 0))
	a.Select()
	b.Select()
	start := f.screen(geometry.NewVector3(0.2, 0.1, 0))

	f.ctrl.MouseDown(event(start, 0))
	assert.False(t, f.camera.Enabled(), "camera is disabled while dragging")
	f.ctrl.MouseMove(event(offset(start, 20, 0), 0))
	f.ctrl.MouseUp(event(offset(start, 20, 0), 0))
	assert.True(t, f.camera.Enabled())

	pa, pb := pointOf(t, a), pointOf(t, b)
	assert.InDelta(t, 0, pa.Z, 1e-9)
	assert.InDelta(t, 0, pb.Z, 1e-9)
	assert.Greater(t, pa.X, 0.35)
	assert.Greater(t, pb.X, -0.15)
	assert.InDelta(t, 0.5, pa.X-pb.X, 0.05)
	assert.InDelta(t, -0.3, pa.Y-pb.Y, 0.05)

	// one checkpoint per touched group
	assert.Len(t, f.set.History(), 2)
	assert.True(t, a.IsSelected())
	assert.True(t, b.IsSelected())
}

func TestDragRendersOncePerMove(t *testing.T) {
	f := newFixture(t)
	a := f.place("left", geometry.NewVector3(0.2, 0.1, 0))
	b := f.place("left", geometry.NewVector3(-0.3, 0.4, 0))
	c := f.place("right", geometry.NewVector3(-0.5, -0.5, 0))
	a.Select()
	b.Select()
	c.Select()
	start := f.screen(geometry.NewVector3(0.2, 0.1, 0))

	f.ctrl.MouseDown(event(start, 0))
	redraws, events := f.renderer.redraws, f.landmarkEvents

	f.ctrl.MouseMove(event(offset(start, 5, 5), 0))

	assert.Equal(t, redraws+1, f.renderer.redraws)
	assert.Equal(t, events+3, f.landmarkEvents)
	assert.False(t, f.events.IsBatchRenderEnabled())
}

func TestDragOffMeshRollsBackEverySelected(t *testing.T) {
	f := newFixture(t)
	edge := geometry.NewVector3(0.9, 0, 0)
	inner := geometry.NewVector3(0.2, 0.1, 0)
	a := f.place("left", edge)
	b := f.place("left", inner)
	a.Select()
	b.Select()
	start := f.screen(edge)

	f.drag(start, offset(start, 100, 0), 0)

	assert.Equal(t, edge, pointOf(t, a))
	assert.Equal(t, inner, pointOf(t, b))
	assert.Empty(t, f.set.History())
	assert.False(t, f.events.IsBatchRenderEnabled())
}

func TestSmallMoveIsAClick(t *testing.T) {
	f := newFixture(t)
	floating := geometry.NewVector3(0.2, 0.1, 0.3)
	lm := f.place("left", floating)
	start := f.screen(floating)

	f.drag(start, offset(start, 1, 0), 0)

	assert.Equal(t, floating, pointOf(t, lm))
	assert.True(t, lm.IsSelected())
	assert.Empty(t, f.set.History())
}

func TestThresholdMoveResnaps(t *testing.T) {
	f := newFixture(t)
	floating := geometry.NewVector3(0.2, 0.1, 0.3)
	lm := f.place("left", floating)
	start := f.screen(floating)

	f.drag(start, offset(start, 2, 0), 0)

	p := pointOf(t, lm)
	assert.InDelta(t, 0, p.Z, 1e-9)
	assert.Greater(t, p.X, floating.X)
	assert.Len(t, f.set.History(), 1)
}

func TestBoxSelect(t *testing.T) {
	f := newFixture(t)
	inside := f.place("left", geometry.NewVector3(-0.6, 0.6, 0))
	outside := f.place("left", geometry.NewVector3(0.5, 0.5, 0))
	occluded := f.place("right", geometry.NewVector3(-0.4, 0.4, -0.3))
	outside.Select()

	require.True(t, NewSelectionRect(geometry.NewVector2(10, 10), geometry.NewVector2(100, 100)).
		Contains(f.screen(geometry.NewVector3(-0.4, 0.4, -0.3))), "occluded landmark projects into the box")

	f.ctrl.MouseDown(event(geometry.NewVector2(100, 100), input.ModShift))
	assert.Equal(t, ModeBoxSelect, f.ctrl.Mode())
	f.ctrl.MouseMove(event(geometry.NewVector2(10, 10), input.ModShift))
	f.ctrl.MouseUp(event(geometry.NewVector2(10, 10), input.ModShift))

	assert.True(t, inside.IsSelected())
	assert.False(t, occluded.IsSelected())
	assert.True(t, outside.IsSelected(), "box select is additive")

	require.Len(t, f.overlay.rects, 1)
	assert.Equal(t, 90.0, f.overlay.rects[0].Width())
	assert.Equal(t, 1, f.overlay.cleared)
	assert.Zero(t, f.cam.RotationY, "camera does not move during box select")
	assert.True(t, f.camera.Enabled())
}

func TestUndoRedoThroughController(t *testing.T) {
	f := newFixture(t)
	f.click(f.screen(geometry.NewVector3(0.3, -0.2, 0)), 0)
	require.False(t, f.set.Group("left").Landmark(0).IsEmpty())

	assert.True(t, f.ctrl.Undo())
	assert.True(t, f.set.Group("left").Landmark(0).IsEmpty())
	assert.False(t, f.ctrl.Undo())

	assert.True(t, f.ctrl.Redo())
	assert.False(t, f.set.Group("left").Landmark(0).IsEmpty())
	assert.False(t, f.ctrl.Redo())
}

func TestUndoRedoAnnounceSelection(t *testing.T) {
	f := newFixture(t)
	selections := 0
	f.events.On(dispatch.SelectionChanged, func(dispatch.Event) { selections++ })

	f.click(f.screen(geometry.NewVector3(0.3, -0.2, 0)), 0)
	before := selections

	require.True(t, f.ctrl.Undo())
	assert.Equal(t, before+1, selections)
	require.True(t, f.ctrl.Redo())
	assert.Equal(t, before+2, selections)
}

func TestUndoIgnoredDuringLandmarkDrag(t *testing.T) {
	f := newFixture(t)
	p := geometry.NewVector3(0.2, 0.1, 0)
	lm := f.place("left", p)
	require.NoError(t, f.set.SnapshotGroup("left"))
	start := f.screen(p)

	f.ctrl.MouseDown(event(start, 0))
	f.ctrl.MouseMove(event(offset(start, 1, 0), 0))

	assert.False(t, f.ctrl.Undo())
	assert.False(t, f.ctrl.Redo())
	assert.Same(t, lm, f.set.Group("left").Landmark(0), "history was not restored")

	// the click path still rolls back the sub threshold motion
	f.ctrl.MouseUp(event(offset(start, 1, 0), 0))
	assert.Equal(t, p, pointOf(t, lm))
	assert.True(t, f.camera.Enabled())
	assert.True(t, f.ctrl.Undo())
}

func TestSetLandmarksDropsGesture(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MouseDown(event(geometry.NewVector2(5, 5), 0))
	assert.True(t, f.camera.Active())

	other, err := landmark.Template("ibug68", "quad")
	require.NoError(t, err)
	f.ctrl.SetLandmarks(other)

	assert.Equal(t, ModeIdle, f.ctrl.Mode())
	assert.Same(t, other, f.ctrl.Set())
	assert.False(t, f.camera.Active(), "camera gesture ended")
}

func TestReloadDuringLandmarkDragRestoresCamera(t *testing.T) {
	f := newFixture(t)
	p := geometry.NewVector3(0.2, 0.1, 0)
	lm := f.place("left", p)
	start := f.screen(p)

	f.ctrl.MouseDown(event(start, 0))
	f.ctrl.MouseMove(event(offset(start, 20, 0), 0))
	require.False(t, f.camera.Enabled())
	require.NotEqual(t, p, pointOf(t, lm))

	f.ctrl.SetMesh(picking.NewMesh(unitQuad(), geometry.Identity()))

	assert.Equal(t, ModeIdle, f.ctrl.Mode())
	assert.True(t, f.camera.Enabled())
	assert.Equal(t, p, pointOf(t, lm), "uncommitted drag is rolled back")
	assert.Empty(t, f.set.History())

	// the release that follows belongs to no gesture
	f.ctrl.MouseUp(event(offset(start, 20, 0), 0))
	assert.Equal(t, p, pointOf(t, lm))
	assert.True(t, f.camera.Enabled())
}

func TestReloadDuringBoxSelectClearsOverlay(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MouseDown(event(geometry.NewVector2(100, 100), input.ModShift))
	f.ctrl.MouseMove(event(geometry.NewVector2(10, 10), input.ModShift))
	require.False(t, f.camera.Enabled())

	f.ctrl.SetMesh(picking.NewMesh(unitQuad(), geometry.Identity()))

	assert.Equal(t, ModeIdle, f.ctrl.Mode())
	assert.True(t, f.camera.Enabled())
	assert.Equal(t, 1, f.overlay.cleared)

	f.ctrl.MouseUp(event(geometry.NewVector2(10, 10), input.ModShift))
	assert.Equal(t, 1, f.overlay.cleared)
}
