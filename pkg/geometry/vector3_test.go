package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vector3
		expected Vector3
	}{
		{"add", a.Add(b), NewVector3(5, -3, 9)},
		{"sub", b.Sub(a), NewVector3(3, -7, 3)},
		{"mul", a.Mul(-2), NewVector3(-2, -4, -6)},
		{"cross", NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)), NewVector3(0, 0, 1)},
		{"negate", b.Negate(), NewVector3(-4, 5, -6)},
		{"min", a.Min(b), NewVector3(1, -5, 3)},
		{"max", a.Max(b), NewVector3(4, 2, 6)},
		{"lerp start", a.Lerp(b, 0), a},
		{"lerp middle", a.Lerp(b, 0.5), NewVector3(2.5, -1.5, 4.5)},
		{"lerp end", a.Lerp(b, 1), b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.expected, 1e-12) {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVector3Metrics(t *testing.T) {
	v := NewVector3(2, 3, 6)

	if got := v.Length(); math.Abs(got-7) > 1e-12 {
		t.Errorf("Length failed: expected 7, got %v", got)
	}
	if got := v.Distance(NewVector3(2, 3, 0)); math.Abs(got-6) > 1e-12 {
		t.Errorf("Distance failed: expected 6, got %v", got)
	}
	if got := v.Dot(NewVector3(1, -1, 0.5)); math.Abs(got-2) > 1e-12 {
		t.Errorf("Dot failed: expected 2, got %v", got)
	}

	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalize failed: length %v", n.Length())
	}
	if zero := (Vector3{}).Normalize(); zero != (Vector3{}) {
		t.Errorf("Normalize of zero vector should stay zero, got %v", zero)
	}
}

func TestVector3ApproxEqual(t *testing.T) {
	v := NewVector3(1, 1, 1)

	if !v.ApproxEqual(NewVector3(1.0005, 0.9995, 1), 1e-3) {
		t.Errorf("ApproxEqual failed: values within tolerance should match")
	}
	if v.ApproxEqual(NewVector3(1, 1, 1.01), 1e-3) {
		t.Errorf("ApproxEqual failed: z differs beyond tolerance")
	}
}

func TestVector3Array(t *testing.T) {
	if got := NewVector3(-1, 0.5, 3).Array(); got != [3]float64{-1, 0.5, 3} {
		t.Errorf("Array failed: got %v", got)
	}
}
