package stl

import (
	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Model is a parsed triangle mesh. Landmarks are stored in its local
// coordinates and keyed by ID.
type Model struct {
	ID        string
	Name      string
	Triangles []geometry.Triangle
}

// NewModel returns an empty model with the solid name from the file header
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddTriangle appends facets to the model
func (m *Model) AddTriangle(triangles ...geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangles...)
}

// TriangleCount is the number of facets
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox is the axis aligned box around every vertex
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	m.eachVertex(bbox.Extend)
	return bbox
}

// SurfaceArea sums the facet areas
func (m *Model) SurfaceArea() float64 {
	var area float64
	for _, t := range m.Triangles {
		area += t.Area()
	}
	return area
}

// Vertices returns every distinct vertex in first-seen order
func (m *Model) Vertices() []geometry.Vector3 {
	seen := make(map[geometry.Vector3]struct{}, len(m.Triangles))
	var out []geometry.Vector3
	m.eachVertex(func(v geometry.Vector3) {
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	})
	return out
}

// BoundingSphere is the sphere the viewport normalizes the mesh into
func (m *Model) BoundingSphere() geometry.BoundingSphere {
	return geometry.SphereFromPoints(m.Vertices())
}

func (m *Model) eachVertex(fn func(geometry.Vector3)) {
	for _, t := range m.Triangles {
		fn(t.V1)
		fn(t.V2)
		fn(t.V3)
	}
}
