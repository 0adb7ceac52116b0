package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/stl"
)

func quadModel() *stl.Model {
	n := geometry.NewVector3(0, 0, 1)
	m := stl.NewModel("quad")
	m.AddTriangle(geometry.NewTriangle(n, geometry.NewVector3(0, 0, 0), geometry.NewVector3(2, 0, 0), geometry.NewVector3(2, 2, 0)))
	m.AddTriangle(geometry.NewTriangle(n, geometry.NewVector3(0, 0, 0), geometry.NewVector3(2, 2, 0), geometry.NewVector3(0, 2, 0)))
	return m
}

func TestAnalyzeMesh(t *testing.T) {
	stats := AnalyzeMesh(quadModel())

	if stats.TriangleCount != 2 || stats.VertexCount != 4 {
		t.Errorf("counts failed: got %d triangles, %d vertices", stats.TriangleCount, stats.VertexCount)
	}
	if math.Abs(stats.SurfaceArea-4) > 1e-9 {
		t.Errorf("SurfaceArea failed: got %v", stats.SurfaceArea)
	}
	if stats.MinEdgeLength != 2 || math.Abs(stats.MaxEdgeLength-2*math.Sqrt2) > 1e-9 {
		t.Errorf("edge lengths failed: got %v..%v", stats.MinEdgeLength, stats.MaxEdgeLength)
	}
}

func TestClosestPoint(t *testing.T) {
	tri := geometry.NewTriangle(geometry.Vector3{}, geometry.NewVector3(0, 0, 0), geometry.NewVector3(2, 0, 0), geometry.NewVector3(0, 2, 0))

	tests := []struct {
		name string
		p    geometry.Vector3
		want geometry.Vector3
	}{
		{"above face", geometry.NewVector3(0.5, 0.5, 3), geometry.NewVector3(0.5, 0.5, 0)},
		{"vertex a", geometry.NewVector3(-1, -1, 0), geometry.NewVector3(0, 0, 0)},
		{"vertex b", geometry.NewVector3(3, -1, 0), geometry.NewVector3(2, 0, 0)},
		{"edge ab", geometry.NewVector3(1, -1, 1), geometry.NewVector3(1, 0, 0)},
		{"edge bc", geometry.NewVector3(2, 2, 0), geometry.NewVector3(1, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPoint(tri, tt.p)
			if !got.ApproxEqual(tt.want, 1e-9) {
				t.Errorf("ClosestPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestAnalyzeLandmarks(t *testing.T) {
	set, err := landmark.NewSet("quad", []string{"a", "b"}, []int{2, 1})
	if err != nil {
		t.Fatal(err)
	}
	set.InsertNewLandmark(geometry.NewVector3(1, 1, 0))
	set.InsertNewLandmark(geometry.NewVector3(1, 1, 0.5))

	r := AnalyzeLandmarks(set, quadModel())

	if r.Placed != 2 || r.Total != 3 || r.Complete() {
		t.Errorf("coverage failed: %d/%d", r.Placed, r.Total)
	}
	if !r.Groups[0].Complete() || r.Groups[1].Complete() {
		t.Errorf("group coverage failed: %+v", r.Groups)
	}
	off := r.OffSurface(0.1)
	if len(off) != 1 || off[0].Entry.Index != 1 || math.Abs(off[0].Distance-0.5) > 1e-9 {
		t.Errorf("OffSurface failed: %+v", off)
	}

	if r := AnalyzeLandmarks(set, nil); len(r.Offsets) != 0 {
		t.Errorf("offsets without a model: %+v", r.Offsets)
	}
}
