// Package analysis summarizes meshes and how completely and accurately a
// landmark set covers them.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/landmarker/pkg/geometry"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/stl"
)

// MeshStats contains measurements of a mesh
type MeshStats struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Sphere        geometry.BoundingSphere
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// AnalyzeMesh measures a model
func AnalyzeMesh(model *stl.Model) MeshStats {
	stats := MeshStats{
		BoundingBox:   model.BoundingBox(),
		Sphere:        model.BoundingSphere(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
		VertexCount:   len(model.Vertices()),
	}
	stats.Dimensions = stats.BoundingBox.Size()

	if len(model.Triangles) == 0 {
		return stats
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	total := 0.0
	for _, t := range model.Triangles {
		for _, length := range t.EdgeLengths() {
			total += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}
	stats.MinEdgeLength = minLength
	stats.MaxEdgeLength = maxLength
	stats.AvgEdgeLength = total / float64(3*len(model.Triangles))
	return stats
}

// GroupCoverage reports how many landmarks of a group are placed
type GroupCoverage struct {
	Label    string
	Placed   int
	Total    int
	Selected int
}

// Complete reports whether every landmark of the group is placed
func (g GroupCoverage) Complete() bool {
	return g.Placed == g.Total
}

// Offset is the distance of one landmark from the mesh surface
type Offset struct {
	Entry    landmark.Entry
	Distance float64
}

// Report describes a landmark set relative to its mesh
type Report struct {
	Groups  []GroupCoverage
	Placed  int
	Total   int
	Offsets []Offset
}

// Complete reports whether every landmark of the set is placed
func (r Report) Complete() bool {
	return r.Placed == r.Total
}

// OffSurface returns landmarks farther than tolerance from the mesh
func (r Report) OffSurface(tolerance float64) []Offset {
	var off []Offset
	for _, o := range r.Offsets {
		if o.Distance > tolerance {
			off = append(off, o)
		}
	}
	return off
}

// AnalyzeLandmarks reports coverage of the set. Offsets are computed only
// when a model is given; landmark points are in model coordinates.
func AnalyzeLandmarks(set *landmark.Set, model *stl.Model) Report {
	var r Report
	for _, label := range set.Labels() {
		g := set.Group(label)
		cov := GroupCoverage{
			Label:    label,
			Total:    g.Len(),
			Placed:   g.Len() - g.NEmpty(),
			Selected: g.NSelected(),
		}
		r.Groups = append(r.Groups, cov)
		r.Placed += cov.Placed
		r.Total += cov.Total
	}

	if model == nil || len(model.Triangles) == 0 {
		return r
	}
	for _, e := range set.NonEmptyLandmarks() {
		p, _ := e.Landmark.Point()
		r.Offsets = append(r.Offsets, Offset{Entry: e, Distance: DistanceToSurface(model, p)})
	}
	return r
}

// DistanceToSurface returns the distance from p to the closest point on
// any triangle of the model
func DistanceToSurface(model *stl.Model, p geometry.Vector3) float64 {
	best := math.MaxFloat64
	for _, t := range model.Triangles {
		d := p.Distance(ClosestPoint(t, p))
		if d < best {
			best = d
		}
	}
	return best
}

// ClosestPoint returns the point of triangle t nearest to p
func ClosestPoint(t geometry.Triangle, p geometry.Vector3) geometry.Vector3 {
	a, b, c := t.V1, t.V2, t.V3
	ab := b.Sub(a)
	ac := c.Sub(a)

	// vertex region a
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// vertex region b
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// edge ab
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	// vertex region c
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// edge ac
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	// edge bc
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	// inside the face
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
