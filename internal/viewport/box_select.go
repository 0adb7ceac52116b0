package viewport

import (
	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/picking"
)

func (c *Controller) releaseBoxSelect(g *gesture, ev input.MouseEvent) {
	if c.overlay != nil {
		c.overlay.ClearOverlay()
	}
	rect := NewSelectionRect(g.down.Position, ev.Position)
	found := c.LandmarksInRect(rect)
	if len(found) == 0 {
		return
	}
	for _, e := range found {
		e.Landmark.Select()
	}
	c.logger.Debug().Int("count", len(found)).Msg("box selected landmarks")
	c.selectionChanged()
}

// LandmarksInRect returns the landmarks whose screen projection lies
// strictly inside rect and that are not hidden behind the mesh
func (c *Controller) LandmarksInRect(rect SelectionRect) []landmark.Entry {
	if c.scene.Set == nil {
		return nil
	}
	var found []landmark.Entry
	for _, e := range c.scene.Set.NonEmptyLandmarks() {
		world, _ := c.scene.LandmarkWorld(e.Landmark)
		screen, ok := c.picker.Project(world)
		if !ok || !rect.Contains(screen) {
			continue
		}
		if c.visible(e) {
			found = append(found, e)
		}
	}
	return found
}

// visible reports whether the nearest hit through the landmark's screen
// position is its own symbol rather than the mesh
func (c *Controller) visible(e landmark.Entry) bool {
	world, ok := c.scene.LandmarkWorld(e.Landmark)
	if !ok {
		return false
	}
	screen, ok := c.picker.Project(world)
	if !ok {
		return false
	}
	hits := c.picker.Intersect(screen, c.scene.MeshTarget(), c.scene.SymbolFor(e))
	return len(hits) > 0 && hits[0].Kind == picking.KindLandmark
}
