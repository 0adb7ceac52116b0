package picking

import (
	"sort"

	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/stl"
)

// Kind tells what a hit belongs to
type Kind int

const (
	KindMesh Kind = iota
	KindLandmark
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLandmark:
		return "landmark"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// Hit is one ray intersection. Point is in world space, Local in mesh-local
// space. Entry is only set for landmark hits.
type Hit struct {
	Kind     Kind
	Point    geometry.Vector3
	Local    geometry.Vector3
	Distance float64
	Entry    landmark.Entry
}

// Target is anything a ray can be intersected with
type Target interface {
	IntersectRay(ray geometry.Ray) []Hit
}

// TargetFunc adapts a function to the Target interface
type TargetFunc func(ray geometry.Ray) []Hit

// IntersectRay calls f(ray)
func (f TargetFunc) IntersectRay(ray geometry.Ray) []Hit {
	return f(ray)
}

func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
}

// Mesh is a triangle mesh in local coordinates placed in the world by a
// transform
type Mesh struct {
	Triangles []geometry.Triangle
	Transform geometry.Transform
	bounds    geometry.BoundingSphere
}

// NewMesh creates a mesh target
func NewMesh(triangles []geometry.Triangle, transform geometry.Transform) *Mesh {
	points := make([]geometry.Vector3, 0, len(triangles)*3)
	for _, t := range triangles {
		points = append(points, t.V1, t.V2, t.V3)
	}
	return &Mesh{
		Triangles: triangles,
		Transform: transform,
		bounds:    geometry.SphereFromPoints(points),
	}
}

// NormalizedMesh places the model so that it fits the unit sphere at the
// origin
func NormalizedMesh(model *stl.Model) *Mesh {
	return NewMesh(model.Triangles, geometry.NormalizeSphere(model.BoundingSphere()))
}

// IntersectRay returns every triangle hit ordered by distance
func (m *Mesh) IntersectRay(ray geometry.Ray) []Hit {
	local := m.Transform.RayToLocal(ray)

	// the local direction is not unit length, check bounds in world space
	center := m.Transform.ToWorld(m.bounds.Center)
	if _, ok := ray.IntersectSphere(center, m.bounds.Radius*m.Transform.Scale()*1.0001); !ok {
		return nil
	}

	var hits []Hit
	for _, t := range m.Triangles {
		if d, ok := t.IntersectRay(local); ok {
			hits = append(hits, Hit{
				Kind:     KindMesh,
				Point:    ray.At(d),
				Local:    local.At(d),
				Distance: d,
			})
		}
	}
	sortHits(hits)
	return hits
}

// Symbol is the sphere drawn for one landmark
type Symbol struct {
	Entry     landmark.Entry
	Transform geometry.Transform
	Radius    float64 // in world units
}

// IntersectRay intersects the symbol sphere. Empty landmarks have no symbol.
func (s Symbol) IntersectRay(ray geometry.Ray) []Hit {
	p, ok := s.Entry.Landmark.Point()
	if !ok {
		return nil
	}
	center := s.Transform.ToWorld(p)
	d, ok := ray.IntersectSphere(center, s.Radius)
	if !ok {
		return nil
	}
	world := ray.At(d)
	return []Hit{{
		Kind:     KindLandmark,
		Point:    world,
		Local:    s.Transform.ToLocal(world),
		Distance: d,
		Entry:    s.Entry,
	}}
}

// PlaneTarget intersects an infinite plane given in world space
func PlaneTarget(plane geometry.Plane) Target {
	return TargetFunc(func(ray geometry.Ray) []Hit {
		d, ok := plane.IntersectRay(ray)
		if !ok {
			return nil
		}
		p := ray.At(d)
		return []Hit{{Kind: KindPlane, Point: p, Local: p, Distance: d}}
	})
}

// Scene holds the pickable objects of the viewport: the mesh and one
// symbol per non-empty landmark of the current set. Landmark points are in
// mesh-local space.
type Scene struct {
	Mesh *Mesh
	Set  *landmark.Set
	// LandmarkScale is the symbol radius in world units. The mesh is
	// normalized to the unit sphere, so this is relative to the mesh size.
	LandmarkScale float64
}

// NewScene creates a scene for a normalized model
func NewScene(mesh *Mesh, set *landmark.Set, landmarkScale float64) *Scene {
	return &Scene{Mesh: mesh, Set: set, LandmarkScale: landmarkScale}
}

// Transform returns the mesh-local to world transform
func (s *Scene) Transform() geometry.Transform {
	if s.Mesh == nil {
		return geometry.Identity()
	}
	return s.Mesh.Transform
}

// SymbolFor returns the symbol target of a single landmark
func (s *Scene) SymbolFor(entry landmark.Entry) Symbol {
	return Symbol{Entry: entry, Transform: s.Transform(), Radius: s.LandmarkScale}
}

// Symbols returns a target covering every non-empty landmark
func (s *Scene) Symbols() Target {
	return TargetFunc(func(ray geometry.Ray) []Hit {
		if s.Set == nil {
			return nil
		}
		var hits []Hit
		for _, entry := range s.Set.NonEmptyLandmarks() {
			hits = append(hits, s.SymbolFor(entry).IntersectRay(ray)...)
		}
		sortHits(hits)
		return hits
	})
}

// MeshTarget returns the mesh, or a target that never hits when no mesh is
// loaded
func (s *Scene) MeshTarget() Target {
	if s.Mesh == nil {
		return TargetFunc(func(geometry.Ray) []Hit { return nil })
	}
	return s.Mesh
}

// LandmarkWorld returns the world position of a landmark
func (s *Scene) LandmarkWorld(lm *landmark.Landmark) (geometry.Vector3, bool) {
	p, ok := lm.Point()
	if !ok {
		return geometry.Vector3{}, false
	}
	return s.Transform().ToWorld(p), true
}
