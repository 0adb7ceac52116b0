package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/landmarker/internal/input"
	"github.com/philipparndt/landmarker/internal/viewport"
	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/picking"
	"github.com/philipparndt/landmarker/pkg/render"
)

// scroll distance of one wheel notch
const wheelNotch = 10.0

var (
	overlayFill   = color.NRGBA{R: 0x66, G: 0x99, B: 0xff, A: 0x33}
	overlayStroke = color.NRGBA{R: 0x66, G: 0x99, B: 0xff, A: 0xcc}
)

// Viewport is the 3D view widget. It renders the scene in software and
// forwards fyne pointer events to the interaction controller.
type Viewport struct {
	widget.BaseWidget

	cam      *picking.Camera
	scene    *picking.Scene
	renderer *render.Renderer
	ctrl     *viewport.Controller

	image   *canvas.Image
	overlay *canvas.Rectangle

	pressed bool
	button  desktop.MouseButton
	mod     fyne.KeyModifier
	last    fyne.Position
}

var (
	_ desktop.Mouseable = (*Viewport)(nil)
	_ desktop.Hoverable = (*Viewport)(nil)
	_ fyne.Draggable    = (*Viewport)(nil)
	_ fyne.Scrollable   = (*Viewport)(nil)
	_ viewport.Renderer = (*Viewport)(nil)
	_ viewport.Overlay  = (*Viewport)(nil)
)

// NewViewport creates the widget. SetController must be called before it
// receives input.
func NewViewport(cam *picking.Camera, scene *picking.Scene, renderer *render.Renderer) *Viewport {
	v := &Viewport{
		cam:      cam,
		scene:    scene,
		renderer: renderer,
		image:    canvas.NewImageFromImage(nil),
		overlay:  canvas.NewRectangle(overlayFill),
	}
	v.image.FillMode = canvas.ImageFillStretch
	v.image.ScaleMode = canvas.ImageScaleFastest
	v.overlay.StrokeColor = overlayStroke
	v.overlay.StrokeWidth = 1
	v.overlay.Hide()
	v.ExtendBaseWidget(v)
	return v
}

// SetController connects the interaction controller
func (v *Viewport) SetController(ctrl *viewport.Controller) {
	v.ctrl = ctrl
}

// CreateRenderer creates the renderer for the widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return &viewportRenderer{view: v, objects: []fyne.CanvasObject{v.image, v.overlay}}
}

// RequestRedraw renders a new frame
func (v *Viewport) RequestRedraw() {
	v.Refresh()
}

// DrawSelectionRect shows the box selection rectangle
func (v *Viewport) DrawSelectionRect(r viewport.SelectionRect) {
	lo, _ := r.Bounds()
	v.overlay.Move(fyne.NewPos(float32(lo.X), float32(lo.Y)))
	v.overlay.Resize(fyne.NewSize(float32(r.Width()), float32(r.Height())))
	v.overlay.Show()
	v.overlay.Refresh()
}

// ClearOverlay hides the box selection rectangle
func (v *Viewport) ClearOverlay() {
	v.overlay.Hide()
}

// MouseDown starts a gesture
func (v *Viewport) MouseDown(e *desktop.MouseEvent) {
	if v.ctrl == nil || v.pressed {
		return
	}
	v.pressed = true
	v.button = e.Button
	v.mod = e.Modifier
	v.last = e.Position
	v.ctrl.MouseDown(toMouseEvent(e.Position, e.Button, e.Modifier))
}

// MouseUp ends the gesture
func (v *Viewport) MouseUp(e *desktop.MouseEvent) {
	v.release(e.Position)
}

// MouseIn is required by desktop.Hoverable
func (v *Viewport) MouseIn(*desktop.MouseEvent) {}

// MouseMoved continues the gesture while a button is held
func (v *Viewport) MouseMoved(e *desktop.MouseEvent) {
	v.move(e.Position)
}

// MouseOut is required by desktop.Hoverable
func (v *Viewport) MouseOut() {}

// Dragged continues the gesture
func (v *Viewport) Dragged(e *fyne.DragEvent) {
	v.move(e.Position)
}

// DragEnd ends the gesture if no mouse up was delivered
func (v *Viewport) DragEnd() {
	v.release(v.last)
}

// Scrolled zooms the camera
func (v *Viewport) Scrolled(e *fyne.ScrollEvent) {
	if v.ctrl == nil {
		return
	}
	v.ctrl.Wheel(float64(e.Scrolled.DY) / wheelNotch)
}

func (v *Viewport) move(pos fyne.Position) {
	if v.ctrl == nil || !v.pressed || pos == v.last {
		return
	}
	v.last = pos
	v.ctrl.MouseMove(toMouseEvent(pos, v.button, v.mod))
}

func (v *Viewport) release(pos fyne.Position) {
	if v.ctrl == nil || !v.pressed {
		return
	}
	v.pressed = false
	v.ctrl.MouseUp(toMouseEvent(pos, v.button, v.mod))
}

// toMouseEvent converts fyne pointer state to a controller event
func toMouseEvent(pos fyne.Position, button desktop.MouseButton, mod fyne.KeyModifier) input.MouseEvent {
	ev := input.MouseEvent{Position: geometry.NewVector2(float64(pos.X), float64(pos.Y))}

	switch {
	case button&desktop.MouseButtonSecondary != 0:
		ev.Button = input.ButtonSecondary
	case button&desktop.MouseButtonTertiary != 0:
		ev.Button = input.ButtonMiddle
	default:
		ev.Button = input.ButtonPrimary
	}

	if mod&fyne.KeyModifierShift != 0 {
		ev.Modifiers |= input.ModShift
	}
	if mod&fyne.KeyModifierControl != 0 {
		ev.Modifiers |= input.ModControl
	}
	if mod&fyne.KeyModifierAlt != 0 {
		ev.Modifiers |= input.ModAlt
	}
	if mod&fyne.KeyModifierSuper != 0 {
		ev.Modifiers |= input.ModSuper
	}
	return ev
}

type viewportRenderer struct {
	view    *Viewport
	objects []fyne.CanvasObject
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.view.image.Resize(size)
	r.view.image.Move(fyne.NewPos(0, 0))
	r.view.cam.Resize(float64(size.Width), float64(size.Height))
	r.Refresh()
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *viewportRenderer) Refresh() {
	v := r.view
	if v.cam.Width < 1 || v.cam.Height < 1 {
		return
	}
	v.image.Image = v.renderer.Render(v.cam, v.scene).Image
	v.image.Refresh()
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewportRenderer) Destroy() {}
