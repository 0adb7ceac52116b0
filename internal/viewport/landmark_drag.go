package viewport

import (
	"github.com/philipparndt/landmarker/internal/dispatch"
	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/picking"
)

func (c *Controller) startLandmarkPress(ev input.MouseEvent, hit picking.Hit) {
	c.camera.Disable()

	set := c.scene.Set
	pressed := hit.Entry
	if err := set.SetActiveGroup(pressed.Label); err != nil {
		c.logger.Error().Err(err).Msg("pressed landmark has no group")
	}

	g := &gesture{
		mode:        ModeLandmarkPress,
		down:        ev,
		pressed:     pressed,
		wasSelected: pressed.Landmark.IsSelected(),
		multi:       ev.MultiSelect(),
	}

	switch {
	case !g.wasSelected && !g.multi:
		set.DeselectAll()
		pressed.Landmark.Select()
		c.selectionChanged()
	case !g.wasSelected:
		pressed.Landmark.Select()
		c.selectionChanged()
	}

	// drag on a camera facing plane slightly in front of the hit
	eye := c.picker.Eye()
	anchor := hit.Point.Lerp(eye, c.cfg.PlaneOffset)
	g.plane = geometry.PlaneFacing(anchor, eye)

	transform := c.scene.Transform()
	g.prevLocal = transform.ToLocal(anchor)
	if hits := c.picker.Intersect(ev.Position, picking.PlaneTarget(g.plane)); len(hits) > 0 {
		g.prevLocal = transform.ToLocal(hits[0].Point)
	}

	g.origins = make(map[*landmark.Landmark]geometry.Vector3)
	for _, e := range set.SelectedLandmarks() {
		if p, ok := e.Landmark.Point(); ok {
			g.origins[e.Landmark] = p
		}
	}

	c.gesture = g
}

// dragLandmarks moves every selected landmark by the plane delta since the
// previous move, in mesh-local space
func (c *Controller) dragLandmarks(ev input.MouseEvent) {
	g := c.gesture
	hits := c.picker.Intersect(ev.Position, picking.PlaneTarget(g.plane))
	if len(hits) == 0 {
		return
	}
	local := c.scene.Transform().ToLocal(hits[0].Point)
	delta := local.Sub(g.prevLocal)
	g.prevLocal = local
	g.moved = true

	selected := c.scene.Set.SelectedLandmarks()
	c.events.Batch(func() {
		for _, e := range selected {
			p, ok := e.Landmark.Point()
			if !ok {
				continue
			}
			e.Landmark.SetPoint(p.Add(delta))
			c.events.Emit(dispatch.LandmarksChanged, e)
		}
	})
}

func (c *Controller) releaseLandmark(g *gesture, click bool) {
	if click {
		// a click never moves landmarks
		if g.moved {
			c.rollback(c.scene.Set.SelectedLandmarks(), g.origins)
		}
		if g.wasSelected && g.multi {
			g.pressed.Landmark.Deselect()
			c.selectionChanged()
		}
		return
	}

	if !c.resnap(g) {
		return
	}
	if c.cfg.AutoSnapshot {
		seen := make(map[string]bool)
		for _, e := range c.scene.Set.SelectedLandmarks() {
			if !seen[e.Label] {
				seen[e.Label] = true
				c.snapshot(e.Label)
			}
		}
	}
}

// resnap projects every selected landmark back onto the mesh along the ray
// from the camera through it. If any of them misses the mesh, all selected
// landmarks return to where they were at press time.
func (c *Controller) resnap(g *gesture) bool {
	selected := c.scene.Set.SelectedLandmarks()
	transform := c.scene.Transform()
	eye := c.picker.Eye()

	snapped := make([]geometry.Vector3, len(selected))
	for i, e := range selected {
		world, ok := c.scene.LandmarkWorld(e.Landmark)
		if !ok {
			continue
		}
		hits := c.picker.IntersectRay(geometry.RayThrough(eye, world), c.scene.MeshTarget())
		if len(hits) == 0 {
			c.logger.Warn().Str("group", e.Label).Int("index", e.Index).
				Msg("landmark fell off mesh, reverting drag")
			c.rollback(selected, g.origins)
			return false
		}
		snapped[i] = transform.ToLocal(hits[0].Point)
	}

	c.events.Batch(func() {
		for i, e := range selected {
			if e.Landmark.IsEmpty() {
				continue
			}
			e.Landmark.SetPoint(snapped[i])
			c.events.Emit(dispatch.LandmarksChanged, e)
		}
	})
	return true
}

func (c *Controller) rollback(selected []landmark.Entry, origins map[*landmark.Landmark]geometry.Vector3) {
	c.events.Batch(func() {
		for _, e := range selected {
			if p, ok := origins[e.Landmark]; ok {
				e.Landmark.SetPoint(p)
				c.events.Emit(dispatch.LandmarksChanged, e)
			}
		}
	})
}
