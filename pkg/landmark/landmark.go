// Package landmark holds the landmark data model: single landmarks, fixed
// size labeled groups of them, and the labeled set that owns a linear
// undo/redo history of group snapshots.
package landmark

import (
	"encoding/json"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Landmark is an optionally empty point on a mesh surface. It remembers the
// point it had when its group was last snapshotted so modifications can be
// detected and rolled back.
type Landmark struct {
	point    *geometry.Vector3
	snapshot *geometry.Vector3
	selected bool
}

// New creates an empty landmark
func New() *Landmark {
	return &Landmark{}
}

// NewAt creates a landmark at p. The initial point is also the baseline, so
// a fresh landmark is not modified.
func NewAt(p geometry.Vector3) *Landmark {
	return &Landmark{point: ptr(p), snapshot: ptr(p)}
}

func ptr(p geometry.Vector3) *geometry.Vector3 {
	return &p
}

// Point returns the current point, or false if the landmark is empty
func (l *Landmark) Point() (geometry.Vector3, bool) {
	if l.point == nil {
		return geometry.Vector3{}, false
	}
	return *l.point, true
}

// SetPoint moves the landmark to p
func (l *Landmark) SetPoint(p geometry.Vector3) {
	l.point = ptr(p)
}

// IsEmpty reports whether the landmark has no point
func (l *Landmark) IsEmpty() bool {
	return l.point == nil
}

// IsSelected reports the selection flag
func (l *Landmark) IsSelected() bool {
	return l.selected
}

// IsModified reports whether the point differs from the snapshot baseline
func (l *Landmark) IsModified() bool {
	if l.point == nil || l.snapshot == nil {
		return !(l.point == nil && l.snapshot == nil)
	}
	return *l.point != *l.snapshot
}

// Select sets the selection flag
func (l *Landmark) Select() {
	l.selected = true
}

// Deselect clears the selection flag
func (l *Landmark) Deselect() {
	l.selected = false
}

// Clear empties the landmark. The baseline is kept.
func (l *Landmark) Clear() {
	l.point = nil
}

// SnapshotTaken records the current point as the baseline. Snapshotting an
// empty landmark leaves the previous baseline in place.
func (l *Landmark) SnapshotTaken() {
	if l.point != nil {
		l.snapshot = ptr(*l.point)
	}
}

// RollbackModifications restores the point from the baseline, emptying the
// landmark when there is none
func (l *Landmark) RollbackModifications() {
	if l.snapshot == nil {
		l.point = nil
		return
	}
	l.point = ptr(*l.snapshot)
}

// Clone returns an independent copy with the same point, baseline and
// selection
func (l *Landmark) Clone() *Landmark {
	c := &Landmark{selected: l.selected}
	if l.point != nil {
		c.point = ptr(*l.point)
	}
	if l.snapshot != nil {
		c.snapshot = ptr(*l.snapshot)
	}
	return c
}

// EqualTo reports matching emptiness, selection and, for non-empty
// landmarks, identical coordinates. Baselines are not compared.
func (l *Landmark) EqualTo(other *Landmark) bool {
	if other == nil {
		return false
	}
	if l.IsEmpty() != other.IsEmpty() || l.selected != other.selected {
		return false
	}
	if l.IsEmpty() {
		return true
	}
	return *l.point == *other.point
}

// MarshalJSON encodes the point as [x, y, z], or null when empty
func (l *Landmark) MarshalJSON() ([]byte, error) {
	if l.point == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.point.Array())
}
