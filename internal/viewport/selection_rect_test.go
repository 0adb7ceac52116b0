package viewport

import (
	"testing"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

func TestSelectionRectNormalizes(t *testing.T) {
	r := NewSelectionRect(geometry.NewVector2(100, 10), geometry.NewVector2(10, 100))

	lo, hi := r.Bounds()
	if lo != geometry.NewVector2(10, 10) || hi != geometry.NewVector2(100, 100) {
		t.Errorf("Bounds failed: got %v %v", lo, hi)
	}
	if r.Width() != 90 || r.Height() != 90 {
		t.Errorf("size failed: got %v x %v", r.Width(), r.Height())
	}
}

func TestSelectionRectContainsStrictly(t *testing.T) {
	r := NewSelectionRect(geometry.NewVector2(10, 10), geometry.NewVector2(100, 100))

	if !r.Contains(geometry.NewVector2(50, 50)) {
		t.Errorf("Contains failed: center should be inside")
	}
	for _, p := range []geometry.Vector2{{X: 10, Y: 50}, {X: 100, Y: 50}, {X: 50, Y: 10}, {X: 50, Y: 100}, {X: 5, Y: 5}} {
		if r.Contains(p) {
			t.Errorf("Contains failed: %v should be outside", p)
		}
	}
}
