package landmark

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Group is a fixed size, ordered collection of landmarks sharing a label
type Group struct {
	label     string
	landmarks []*Landmark
}

// NewGroup creates a group of n empty landmarks
func NewGroup(label string, n int) *Group {
	g := &Group{label: label, landmarks: make([]*Landmark, n)}
	for i := range g.landmarks {
		g.landmarks[i] = New()
	}
	return g
}

// NewGroupFromPoints creates a group with one landmark per entry. A nil
// entry makes an empty landmark.
func NewGroupFromPoints(label string, points []*geometry.Vector3) *Group {
	g := &Group{label: label, landmarks: make([]*Landmark, len(points))}
	for i, p := range points {
		if p == nil {
			g.landmarks[i] = New()
		} else {
			g.landmarks[i] = NewAt(*p)
		}
	}
	return g
}

// Label returns the group label
func (g *Group) Label() string {
	return g.label
}

// Len returns the number of landmarks, fixed at construction
func (g *Group) Len() int {
	return len(g.landmarks)
}

// Landmark returns the landmark at index i, or nil when out of range
func (g *Group) Landmark(i int) *Landmark {
	if i < 0 || i >= len(g.landmarks) {
		return nil
	}
	return g.landmarks[i]
}

// SetLandmark replaces the landmark at index i
func (g *Group) SetLandmark(i int, lm *Landmark) error {
	if i < 0 || i >= len(g.landmarks) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(g.landmarks))
	}
	g.landmarks[i] = lm
	return nil
}

// NEmpty counts empty landmarks
func (g *Group) NEmpty() int {
	n := 0
	for _, lm := range g.landmarks {
		if lm.IsEmpty() {
			n++
		}
	}
	return n
}

// NSelected counts selected landmarks
func (g *Group) NSelected() int {
	n := 0
	for _, lm := range g.landmarks {
		if lm.IsSelected() {
			n++
		}
	}
	return n
}

// SelectAll selects every landmark
func (g *Group) SelectAll() {
	for _, lm := range g.landmarks {
		lm.Select()
	}
}

// DeselectAll deselects every landmark
func (g *Group) DeselectAll() {
	for _, lm := range g.landmarks {
		lm.Deselect()
	}
}

// ClearAll empties every landmark
func (g *Group) ClearAll() {
	for _, lm := range g.landmarks {
		lm.Clear()
	}
}

// SetAllPoints moves every landmark. The number of points must match the
// group length.
func (g *Group) SetAllPoints(points []geometry.Vector3) error {
	if len(points) != len(g.landmarks) {
		return fmt.Errorf("%w: group %q has %d landmarks, got %d points",
			ErrLengthMismatch, g.label, len(g.landmarks), len(points))
	}
	for i, p := range points {
		g.landmarks[i].SetPoint(p)
	}
	return nil
}

// FirstEmptyLandmark returns the lowest indexed empty landmark
func (g *Group) FirstEmptyLandmark() (int, *Landmark, bool) {
	for i, lm := range g.landmarks {
		if lm.IsEmpty() {
			return i, lm, true
		}
	}
	return -1, nil, false
}

// SelectedLandmarks returns the selected landmarks in index order
func (g *Group) SelectedLandmarks() []*Landmark {
	var selected []*Landmark
	for _, lm := range g.landmarks {
		if lm.IsSelected() {
			selected = append(selected, lm)
		}
	}
	return selected
}

// Points returns a copy of every point, nil for empty landmarks
func (g *Group) Points() []*geometry.Vector3 {
	points := make([]*geometry.Vector3, len(g.landmarks))
	for i, lm := range g.landmarks {
		if p, ok := lm.Point(); ok {
			points[i] = &p
		}
	}
	return points
}

// Clone returns an independent group with every landmark cloned
func (g *Group) Clone() *Group {
	c := &Group{label: g.label, landmarks: make([]*Landmark, len(g.landmarks))}
	for i, lm := range g.landmarks {
		c.landmarks[i] = lm.Clone()
	}
	return c
}

// EqualTo compares labels and every landmark pairwise
func (g *Group) EqualTo(other *Group) bool {
	if other == nil || g.label != other.label || len(g.landmarks) != len(other.landmarks) {
		return false
	}
	for i, lm := range g.landmarks {
		if !lm.EqualTo(other.landmarks[i]) {
			return false
		}
	}
	return true
}

type groupJSON struct {
	Points []*Landmark `json:"points"`
}

// MarshalJSON encodes the group as {"points": [...]}. The label is the key
// in the enclosing set.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{Points: g.landmarks})
}
