// Package camera drives the orbit camera from mouse input: the primary
// button rotates, the middle button zooms and the secondary button pans.
package camera

import (
	"math"

	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/picking"
)

// View is a preset camera direction
type View int

const (
	ViewFront View = iota
	ViewBack
	ViewLeft
	ViewRight
	ViewTop
	ViewBottom
)

type gesture int

const (
	gestureNone gesture = iota
	gestureRotate
	gestureZoom
	gesturePan
)

const (
	rotateSpeed = 0.005 // radians per pixel
	zoomSpeed   = 0.005 // relative distance per pixel
	wheelSpeed  = 0.1   // relative distance per wheel step
)

// Controller moves a camera in response to mouse gestures. A disabled
// controller ignores every event.
type Controller struct {
	cam      *picking.Camera
	enabled  bool
	gesture  gesture
	last     geometry.Vector2
	onChange func()

	defaultTarget   geometry.Vector3
	defaultDistance float64
}

// New creates an enabled controller. onChange is called after every camera
// movement and may be nil.
func New(cam *picking.Camera, onChange func()) *Controller {
	return &Controller{
		cam:             cam,
		enabled:         true,
		onChange:        onChange,
		defaultTarget:   cam.Target,
		defaultDistance: cam.Distance,
	}
}

// Camera returns the driven camera
func (c *Controller) Camera() *picking.Camera {
	return c.cam
}

// Enable lets the controller react to input again
func (c *Controller) Enable() {
	c.enabled = true
}

// Disable stops reacting to input and ends any running gesture
func (c *Controller) Disable() {
	c.enabled = false
	c.gesture = gestureNone
}

// Enabled reports whether input is handled
func (c *Controller) Enabled() bool {
	return c.enabled
}

// Active reports whether a camera gesture is running
func (c *Controller) Active() bool {
	return c.gesture != gestureNone
}

// MouseDown starts a gesture. It reports whether the event was consumed.
func (c *Controller) MouseDown(ev input.MouseEvent) bool {
	if !c.enabled {
		return false
	}
	switch ev.Button {
	case input.ButtonPrimary:
		c.gesture = gestureRotate
	case input.ButtonMiddle:
		c.gesture = gestureZoom
	case input.ButtonSecondary:
		c.gesture = gesturePan
	default:
		return false
	}
	c.last = ev.Position
	return true
}

// MouseMove continues the running gesture
func (c *Controller) MouseMove(ev input.MouseEvent) bool {
	if !c.enabled || c.gesture == gestureNone {
		return false
	}
	delta := ev.Position.Sub(c.last)
	c.last = ev.Position

	switch c.gesture {
	case gestureRotate:
		c.cam.Rotate(delta.Y*rotateSpeed, -delta.X*rotateSpeed)
	case gestureZoom:
		c.cam.Zoom(delta.Y * zoomSpeed)
	case gesturePan:
		c.cam.Pan(delta.X, delta.Y)
	}
	c.changed()
	return true
}

// MouseUp ends the running gesture
func (c *Controller) MouseUp(ev input.MouseEvent) bool {
	if c.gesture == gestureNone {
		return false
	}
	c.gesture = gestureNone
	return true
}

// Wheel zooms by steps; positive steps move the camera closer
func (c *Controller) Wheel(steps float64) {
	if !c.enabled || steps == 0 {
		return
	}
	c.cam.Zoom(-steps * wheelSpeed)
	c.changed()
}

// SetView turns the camera to a preset direction around the default
// target
func (c *Controller) SetView(v View) {
	switch v {
	case ViewFront:
		c.cam.RotationX, c.cam.RotationY = 0, 0
	case ViewBack:
		c.cam.RotationX, c.cam.RotationY = 0, math.Pi
	case ViewLeft:
		c.cam.RotationX, c.cam.RotationY = 0, -math.Pi/2
	case ViewRight:
		c.cam.RotationX, c.cam.RotationY = 0, math.Pi/2
	case ViewTop:
		// clamped like Rotate to keep the up vector usable
		c.cam.RotationX, c.cam.RotationY = math.Pi/2-0.1, 0
	case ViewBottom:
		c.cam.RotationX, c.cam.RotationY = -(math.Pi/2 - 0.1), 0
	}
	c.cam.Target = c.defaultTarget
	c.cam.UpdatePosition()
	c.changed()
}

// Reset restores the initial front view and distance
func (c *Controller) Reset() {
	c.cam.Distance = c.defaultDistance
	c.SetView(ViewFront)
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
