package geometry

import "math"

// Ray is a half line starting at Origin. Direction is kept normalized so
// the ray parameter equals the distance from the origin.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// RayThrough creates a ray from origin passing through target
func RayThrough(origin, target Vector3) Ray {
	return NewRay(origin, target.Sub(origin))
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere returns the nearest distance at which the ray enters the
// sphere. A ray starting inside the sphere reports the exit point.
func (r Ray) IntersectSphere(center Vector3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= 0 {
		t = -b + sq
	}
	if t <= 0 {
		return 0, false
	}
	return t, true
}
