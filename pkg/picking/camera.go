package picking

import (
	"math"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Camera is a perspective orbit camera over a viewport of Width x Height
// pixels. Screen coordinates have their origin in the top left corner.
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
	Width     float64
	Height    float64
}

// NewCamera creates a camera looking down -Z at the sphere, far enough
// away for the whole sphere to fit the field of view
func NewCamera(sphere geometry.BoundingSphere, width, height float64) *Camera {
	fov := math.Pi / 4 // 45 degrees
	radius := sphere.Radius
	if radius == 0 {
		radius = 1
	}
	distance := radius / math.Sin(fov/2) * 1.1

	c := &Camera{
		Target:   sphere.Center,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Distance: distance,
		Width:    width,
		Height:   height,
	}
	c.UpdatePosition()
	return c
}

// Resize updates the viewport size in pixels
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	if c.RotationX > maxAngle {
		c.RotationX = maxAngle
	}
	if c.RotationX < -maxAngle {
		c.RotationX = -maxAngle
	}

	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

// Pan moves target and position together by a screen-space offset in
// pixels
func (c *Camera) Pan(dx, dy float64) {
	_, right, up := c.basis()
	// one pixel covers this many world units at the target depth
	unit := 2 * c.Distance * math.Tan(c.FOV/2) / c.Height
	offset := right.Mul(-dx * unit).Add(up.Mul(dy * unit))
	c.Target = c.Target.Add(offset)
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project projects a world point to screen coordinates. The returned depth
// is the distance along the view direction; points with depth <= 0 are
// behind the camera and their screen position is meaningless.
func (c *Camera) Project(point geometry.Vector3) (geometry.Vector2, float64) {
	forward, right, up := c.basis()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	depth := z
	if z <= 0.01 {
		z = 0.01 // Prevent division by zero
	}

	aspect := c.Width / c.Height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(c.Width/2) + (c.Width / 2)
	screenY := (-y/(z*fovScale))*(c.Height/2) + (c.Height / 2)

	return geometry.NewVector2(screenX, screenY), depth
}

// Unproject converts a screen point into a world ray from the camera
func (c *Camera) Unproject(screen geometry.Vector2) geometry.Ray {
	// Convert screen coordinates to normalized device coordinates (-1 to 1)
	ndcX := (2.0 * screen.X / c.Width) - 1.0
	ndcY := 1.0 - (2.0 * screen.Y / c.Height)

	aspect := c.Width / c.Height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.basis()
	dir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))

	return geometry.NewRay(c.Position, dir)
}
