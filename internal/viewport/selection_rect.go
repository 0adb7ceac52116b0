package viewport

import "github.com/philipparndt/landmarker/pkg/geometry"

// SelectionRect represents a rectangular selection area in screen space
type SelectionRect struct {
	Start geometry.Vector2
	End   geometry.Vector2
}

// NewSelectionRect creates a new selection rectangle
func NewSelectionRect(start, end geometry.Vector2) SelectionRect {
	return SelectionRect{
		Start: start,
		End:   end,
	}
}

// Bounds returns the normalized corners
// (ensures min <= max regardless of drag direction)
func (s SelectionRect) Bounds() (lo, hi geometry.Vector2) {
	return s.Start.Min(s.End), s.Start.Max(s.End)
}

// Width returns the horizontal extent
func (s SelectionRect) Width() float64 {
	lo, hi := s.Bounds()
	return hi.X - lo.X
}

// Height returns the vertical extent
func (s SelectionRect) Height() float64 {
	lo, hi := s.Bounds()
	return hi.Y - lo.Y
}

// Contains reports whether p lies strictly inside the rectangle. Points on
// the border are outside.
func (s SelectionRect) Contains(p geometry.Vector2) bool {
	lo, hi := s.Bounds()
	return p.X > lo.X && p.X < hi.X && p.Y > lo.Y && p.Y < hi.Y
}
