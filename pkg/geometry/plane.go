package geometry

import "math"

// Plane is an infinite plane through Point with unit Normal
type Plane struct {
	Point  Vector3
	Normal Vector3
}

// NewPlane creates a plane, normalizing the normal
func NewPlane(point, normal Vector3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// PlaneFacing creates a plane through point whose normal points at eye
func PlaneFacing(point, eye Vector3) Plane {
	return NewPlane(point, eye.Sub(point))
}

// IntersectRay returns the distance along the ray to the plane
func (p Plane) IntersectRay(ray Ray) (float64, bool) {
	denom := p.Normal.Dot(ray.Direction)
	if math.Abs(denom) < intersectEpsilon {
		return 0, false
	}
	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}
