package geometry

import "github.com/go-gl/mathgl/mgl64"

// Transform maps mesh-local coordinates to world coordinates with a uniform
// scale followed by a translation.
type Transform struct {
	toWorld mgl64.Mat4
	toLocal mgl64.Mat4
	scale   float64
}

// Identity returns the transform that leaves points unchanged
func Identity() Transform {
	return NewTransform(1, Vector3{})
}

// NewTransform creates a transform applying scale then translation
func NewTransform(scale float64, translation Vector3) Transform {
	m := mgl64.Translate3D(translation.X, translation.Y, translation.Z).
		Mul4(mgl64.Scale3D(scale, scale, scale))
	return Transform{
		toWorld: m,
		toLocal: m.Inv(),
		scale:   scale,
	}
}

// NormalizeSphere returns the transform that fits the sphere into the unit
// sphere centred at the origin
func NormalizeSphere(sphere BoundingSphere) Transform {
	if sphere.Radius == 0 {
		return NewTransform(1, sphere.Center.Negate())
	}
	s := 1.0 / sphere.Radius
	return NewTransform(s, sphere.Center.Mul(-s))
}

// Scale returns the uniform scale factor from local to world
func (t Transform) Scale() float64 {
	return t.scale
}

// ToWorld converts a mesh-local point to world space
func (t Transform) ToWorld(v Vector3) Vector3 {
	return fromVec(mgl64.TransformCoordinate(toVec(v), t.toWorld))
}

// ToLocal converts a world point to mesh-local space
func (t Transform) ToLocal(v Vector3) Vector3 {
	return fromVec(mgl64.TransformCoordinate(toVec(v), t.toLocal))
}

// RayToLocal converts a world ray into local space. The local direction is
// not normalized so that ray parameters stay in world units.
func (t Transform) RayToLocal(r Ray) Ray {
	origin := t.ToLocal(r.Origin)
	return Ray{
		Origin:    origin,
		Direction: t.ToLocal(r.Origin.Add(r.Direction)).Sub(origin),
	}
}

func toVec(v Vector3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec(v mgl64.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}
