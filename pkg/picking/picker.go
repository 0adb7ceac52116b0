// Package picking turns screen positions into world rays and intersects
// them with the viewport scene.
package picking

import (
	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Picker answers hit tests for the current camera state
type Picker struct {
	Camera *Camera
}

// NewPicker creates a picker bound to cam
func NewPicker(cam *Camera) *Picker {
	return &Picker{Camera: cam}
}

// Intersect casts a ray through the screen point and returns the hits on
// all targets ordered by distance, nearest first
func (p *Picker) Intersect(screen geometry.Vector2, targets ...Target) []Hit {
	return p.IntersectRay(p.Unproject(screen), targets...)
}

// IntersectRay returns the hits of ray on all targets ordered by distance
func (p *Picker) IntersectRay(ray geometry.Ray, targets ...Target) []Hit {
	var hits []Hit
	for _, target := range targets {
		hits = append(hits, target.IntersectRay(ray)...)
	}
	sortHits(hits)
	return hits
}

// Project maps a world point to screen coordinates. ok is false for points
// behind the camera.
func (p *Picker) Project(world geometry.Vector3) (geometry.Vector2, bool) {
	screen, depth := p.Camera.Project(world)
	return screen, depth > 0
}

// Unproject returns the world ray through a screen point
func (p *Picker) Unproject(screen geometry.Vector2) geometry.Ray {
	return p.Camera.Unproject(screen)
}

// Eye returns the camera position
func (p *Picker) Eye() geometry.Vector3 {
	return p.Camera.Position
}
