package render

import (
	"image"
	"image/color"
	"math"
)

// vertex is a projected vertex: screen position and view depth
type vertex struct {
	x, y, z float64
}

// fillTriangle fills a triangle using a scanline algorithm, keeping a pixel
// only when it is closer than what the depth buffer holds
func fillTriangle(img *image.RGBA, zbuffer []float64, a, b, c vertex, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	yStart := int(math.Max(0, math.Ceil(a.y)))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), c.y))
	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// long edge a-c always spans the scanline
		xl, zl, ok := edgeAt(a, c, fy)
		if !ok {
			continue
		}
		var xr, zr float64
		if fy < b.y {
			xr, zr, ok = edgeAt(a, b, fy)
		} else {
			xr, zr, ok = edgeAt(b, c, fy)
		}
		if !ok {
			continue
		}
		if xl > xr {
			xl, xr = xr, xl
			zl, zr = zr, zl
		}

		xStart := int(math.Max(0, math.Ceil(xl)))
		xEnd := int(math.Min(float64(bounds.Max.X-1), xr))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xr != xl {
				t = (float64(x) - xl) / (xr - xl)
			}
			z := zl + t*(zr-zl)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// edgeAt interpolates the edge p-q at scanline y
func edgeAt(p, q vertex, y float64) (x, z float64, ok bool) {
	if p.y == q.y {
		if y != p.y {
			return 0, 0, false
		}
		return p.x, p.z, true
	}
	if y < p.y || y > q.y {
		return 0, 0, false
	}
	t := (y - p.y) / (q.y - p.y)
	return p.x + t*(q.x-p.x), p.z + t*(q.z-p.z), true
}

// shade scales a color by a light intensity in [0, 1]
func shade(col color.RGBA, intensity float64) color.RGBA {
	f := 0.25 + 0.75*math.Max(0, math.Min(1, intensity))
	return color.RGBA{
		R: uint8(float64(col.R) * f),
		G: uint8(float64(col.G) * f),
		B: uint8(float64(col.B) * f),
		A: col.A,
	}
}
