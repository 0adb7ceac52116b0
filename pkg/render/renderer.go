// Package render draws a landmarked mesh into an image with a depth
// buffered software rasterizer. Landmarks are drawn as discs on top of the
// shaded mesh, hidden where the mesh is in front of them.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/philipparndt/landmarker/pkg/picking"
)

// Landmark colors
var (
	LandmarkColor = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	SelectedColor = color.RGBA{R: 0xff, G: 0x75, B: 0xff, A: 0xff}
)

const minLandmarkPixels = 3.0

// Options control the look of a rendered frame
type Options struct {
	Background color.RGBA
	MeshColor  color.RGBA
	Labels     bool
	FontSize   float64
}

// DefaultOptions returns the viewport look
func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{R: 0x20, G: 0x22, B: 0x26, A: 0xff},
		MeshColor:  color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff},
		FontSize:   11,
	}
}

// Renderer renders scenes through a camera
type Renderer struct {
	opts Options
	face font.Face
}

// New creates a renderer
func New(opts Options) (*Renderer, error) {
	r := &Renderer{opts: opts}
	if opts.Labels {
		ttf, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		r.face = truetype.NewFace(ttf, &truetype.Options{
			Size:    opts.FontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	return r, nil
}

// Frame is one rendered image with its depth buffer
type Frame struct {
	Image *image.RGBA
	depth []float64
}

// Depth returns the view depth of the nearest mesh surface at a pixel, or
// +Inf where no mesh was drawn
func (f *Frame) Depth(x, y int) float64 {
	b := f.Image.Bounds()
	if x < 0 || y < 0 || x >= b.Max.X || y >= b.Max.Y {
		return math.Inf(1)
	}
	return f.depth[y*b.Max.X+x]
}

// Render draws the scene at the camera's viewport size
func (r *Renderer) Render(cam *picking.Camera, scene *picking.Scene) *Frame {
	width, height := int(cam.Width), int(cam.Height)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r.opts.Background.R
		img.Pix[i+1] = r.opts.Background.G
		img.Pix[i+2] = r.opts.Background.B
		img.Pix[i+3] = r.opts.Background.A
	}

	frame := &Frame{Image: img, depth: zbuffer}
	if scene.Mesh != nil {
		r.drawMesh(frame, cam, scene.Mesh)
	}
	r.drawLandmarks(frame, cam, scene)
	return frame
}

func (r *Renderer) drawMesh(frame *Frame, cam *picking.Camera, mesh *picking.Mesh) {
	for _, t := range mesh.Triangles {
		w1 := mesh.Transform.ToWorld(t.V1)
		w2 := mesh.Transform.ToWorld(t.V2)
		w3 := mesh.Transform.ToWorld(t.V3)

		s1, d1 := cam.Project(w1)
		s2, d2 := cam.Project(w2)
		s3, d3 := cam.Project(w3)
		if d1 <= 0 || d2 <= 0 || d3 <= 0 {
			continue
		}

		// headlight shading, two sided
		normal := t.CalculateNormal()
		view := cam.Position.Sub(w1.Add(w2).Add(w3).Mul(1.0 / 3)).Normalize()
		col := shade(r.opts.MeshColor, math.Abs(normal.Dot(view)))

		fillTriangle(frame.Image, frame.depth,
			vertex{s1.X, s1.Y, d1}, vertex{s2.X, s2.Y, d2}, vertex{s3.X, s3.Y, d3}, col)
	}
}

func (r *Renderer) drawLandmarks(frame *Frame, cam *picking.Camera, scene *picking.Scene) {
	if scene.Set == nil {
		return
	}
	dc := gg.NewContextForRGBA(frame.Image)
	if r.face != nil {
		dc.SetFontFace(r.face)
	}
	pixelsPerUnit := cam.Height / 2 / math.Tan(cam.FOV/2)

	for _, e := range scene.Set.NonEmptyLandmarks() {
		world, _ := scene.LandmarkWorld(e.Landmark)
		screen, depth := cam.Project(world)
		if depth <= 0 {
			continue
		}
		// hidden when the surface at its center is in front of the sphere
		if frame.Depth(int(screen.X), int(screen.Y)) < depth-scene.LandmarkScale {
			continue
		}

		radius := math.Max(minLandmarkPixels, scene.LandmarkScale*pixelsPerUnit/depth)
		col := LandmarkColor
		if e.Landmark.IsSelected() {
			col = SelectedColor
		}
		dc.DrawCircle(screen.X, screen.Y, radius)
		dc.SetColor(col)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.SetLineWidth(1)
		dc.Stroke()

		if r.face != nil {
			dc.SetColor(col)
			dc.DrawStringAnchored(fmt.Sprintf("%s %d", e.Label, e.Index), screen.X+radius+2, screen.Y, 0, 0.5)
		}
	}
}

// SavePNG renders the scene and writes it to path
func (r *Renderer) SavePNG(path string, cam *picking.Camera, scene *picking.Scene) error {
	frame := r.Render(cam, scene)
	if err := gg.SavePNG(path, frame.Image); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
