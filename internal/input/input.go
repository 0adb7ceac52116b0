// Package input defines toolkit independent mouse events.
package input

import "github.com/philipparndt/landmarker/pkg/geometry"

// Button is a mouse button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifier is a bit set of held keyboard modifiers
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// MouseEvent is a pointer event in viewport pixels
type MouseEvent struct {
	Position  geometry.Vector2
	Button    Button
	Modifiers Modifier
}

// Has reports whether all modifiers in m are held
func (e MouseEvent) Has(m Modifier) bool {
	return e.Modifiers&m == m
}

// MultiSelect reports whether the modifier that extends a selection is
// held. Both Ctrl and Cmd work.
func (e MouseEvent) MultiSelect() bool {
	return e.Modifiers&(ModControl|ModSuper) != 0
}
