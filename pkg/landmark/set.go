package landmark

import (
	"fmt"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Change identifies what a set operation modified
type Change int

const (
	// ChangePoints is reported when landmark points were added, moved or
	// restored
	ChangePoints Change = iota
	// ChangeSelection is reported when selection flags changed
	ChangeSelection
	// ChangeHistory is reported when the undo history changed
	ChangeHistory
	// ChangeActiveGroup is reported when another group became active
	ChangeActiveGroup
)

// Entry locates a landmark inside a set
type Entry struct {
	Label    string
	Index    int
	Landmark *Landmark
}

// Insertion is the result of a successful InsertNewLandmark
type Insertion struct {
	Landmark *Landmark
	Index    int
	Group    *Group
}

// HistoryEntry is one undo checkpoint: a deep copy of a single group
type HistoryEntry struct {
	Label string
	Group *Group
}

// Set maps labels to landmark groups, tracks the active group and owns a
// linear undo/redo history of group snapshots.
//
// History pointer -1 is the initial state. Taking a snapshot while the
// pointer is not at the tail discards the redo branch.
type Set struct {
	modelID  string
	labels   []string
	groups   map[string]*Group
	active   string
	history  []HistoryEntry
	pointer  int
	initial  map[string]*Group
	onChange []func(Change)
}

// NewSet creates a set of empty groups, one per label with the matching
// count. labels and counts must have the same length.
func NewSet(modelID string, labels []string, counts []int) (*Set, error) {
	if len(labels) != len(counts) {
		return nil, fmt.Errorf("%w: %d labels but %d counts", ErrLengthMismatch, len(labels), len(counts))
	}
	points := make([][]*geometry.Vector3, len(counts))
	for i, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative count %d for %q", ErrLengthMismatch, n, labels[i])
		}
		points[i] = make([]*geometry.Vector3, n)
	}
	return NewSetWithPoints(modelID, labels, points)
}

// NewSetWithPoints creates a set whose groups start at the given points.
// A nil point makes an empty landmark. The initial state used by Undo is
// always the empty configuration.
func NewSetWithPoints(modelID string, labels []string, points [][]*geometry.Vector3) (*Set, error) {
	if len(labels) != len(points) {
		return nil, fmt.Errorf("%w: %d labels but %d point groups", ErrLengthMismatch, len(labels), len(points))
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	s := &Set{
		modelID: modelID,
		labels:  append([]string(nil), labels...),
		groups:  make(map[string]*Group, len(labels)),
		active:  labels[0],
		pointer: -1,
		initial: make(map[string]*Group, len(labels)),
	}
	for i, label := range labels {
		if _, exists := s.groups[label]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}
		s.groups[label] = NewGroupFromPoints(label, points[i])
		s.initial[label] = NewGroup(label, len(points[i]))
	}
	return s, nil
}

// Observe registers fn to be called after every change the set makes
// itself. Mutations made directly on landmarks are not reported.
func (s *Set) Observe(fn func(Change)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Set) notify(changes ...Change) {
	for _, c := range changes {
		for _, fn := range s.onChange {
			fn(c)
		}
	}
}

// ModelID returns the identifier of the mesh the set belongs to
func (s *Set) ModelID() string {
	return s.modelID
}

// Labels returns the labels in construction order
func (s *Set) Labels() []string {
	return append([]string(nil), s.labels...)
}

// NGroups returns the number of groups
func (s *Set) NGroups() int {
	return len(s.labels)
}

// Group returns the live group for label, or nil
func (s *Set) Group(label string) *Group {
	return s.groups[label]
}

// ActiveLabel returns the label of the active group
func (s *Set) ActiveLabel() string {
	return s.active
}

// ActiveGroup returns the group new landmarks are inserted into
func (s *Set) ActiveGroup() *Group {
	return s.groups[s.active]
}

// SetActiveGroup makes label the active group
func (s *Set) SetActiveGroup(label string) error {
	if _, ok := s.groups[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	if s.active != label {
		s.active = label
		s.notify(ChangeActiveGroup)
	}
	return nil
}

// NonEmptyLandmarks returns every landmark with a point, in label order
// then index order
func (s *Set) NonEmptyLandmarks() []Entry {
	var entries []Entry
	s.each(func(e Entry) {
		if !e.Landmark.IsEmpty() {
			entries = append(entries, e)
		}
	})
	return entries
}

// SelectedLandmarks returns every selected landmark across all groups
func (s *Set) SelectedLandmarks() []Entry {
	var entries []Entry
	s.each(func(e Entry) {
		if e.Landmark.IsSelected() {
			entries = append(entries, e)
		}
	})
	return entries
}

func (s *Set) each(fn func(Entry)) {
	for _, label := range s.labels {
		g := s.groups[label]
		for i := 0; i < g.Len(); i++ {
			fn(Entry{Label: label, Index: i, Landmark: g.Landmark(i)})
		}
	}
}

// InsertNewLandmark places p in the first empty slot of the active group.
// It reports false, inserting nothing, when the group is full. The active
// group does not advance when it fills up.
func (s *Set) InsertNewLandmark(p geometry.Vector3) (Insertion, bool) {
	group := s.ActiveGroup()
	i, lm, ok := group.FirstEmptyLandmark()
	if !ok {
		return Insertion{}, false
	}
	lm.SetPoint(p)
	s.notify(ChangePoints)
	return Insertion{Landmark: lm, Index: i, Group: group}, true
}

// DeselectAll deselects every landmark in every group
func (s *Set) DeselectAll() {
	for _, label := range s.labels {
		s.groups[label].DeselectAll()
	}
	s.notify(ChangeSelection)
}

// SnapshotGroup pushes a checkpoint of the group onto the history. An empty
// label snapshots the active group. Any redo entries past the current
// pointer are discarded first.
func (s *Set) SnapshotGroup(label string) error {
	if label == "" {
		label = s.active
	}
	group, ok := s.groups[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	s.history = s.history[:s.pointer+1]
	for i := 0; i < group.Len(); i++ {
		group.Landmark(i).SnapshotTaken()
	}
	s.history = append(s.history, HistoryEntry{Label: label, Group: group.Clone()})
	s.pointer = len(s.history) - 1
	s.notify(ChangeHistory)
	return nil
}

// Undo steps the history pointer back and restores the state it lands on.
// Landing on -1 restores every group to the initial state. It returns the
// new pointer, or false when already at the initial state.
func (s *Set) Undo() (int, bool) {
	if s.pointer == -1 {
		return -1, false
	}
	s.pointer--
	if s.pointer == -1 {
		for _, label := range s.labels {
			s.groups[label] = s.initial[label].Clone()
		}
	} else {
		s.restore()
	}
	s.notify(ChangePoints, ChangeHistory)
	return s.pointer, true
}

// Redo steps the history pointer forward and restores that entry. It
// returns the new pointer, or false when already at the tail.
func (s *Set) Redo() (int, bool) {
	if s.pointer == len(s.history)-1 {
		return s.pointer, false
	}
	s.pointer++
	s.restore()
	s.notify(ChangePoints, ChangeHistory)
	return s.pointer, true
}

func (s *Set) restore() {
	entry := s.history[s.pointer]
	s.groups[entry.Label] = entry.Group.Clone()
}

// HistoryPointer returns the current history pointer
func (s *Set) HistoryPointer() int {
	return s.pointer
}

// History returns the checkpoints. The groups are shared with the set and
// must not be mutated.
func (s *Set) History() []HistoryEntry {
	return append([]HistoryEntry(nil), s.history...)
}

// CanUndo reports whether Undo would do anything
func (s *Set) CanUndo() bool {
	return s.pointer > -1
}

// CanRedo reports whether Redo would do anything
func (s *Set) CanRedo() bool {
	return s.pointer < len(s.history)-1
}

// EqualTo compares model ID, labels and every group
func (s *Set) EqualTo(other *Set) bool {
	if other == nil || s.modelID != other.modelID || len(s.labels) != len(other.labels) {
		return false
	}
	for i, label := range s.labels {
		if other.labels[i] != label || !s.groups[label].EqualTo(other.groups[label]) {
			return false
		}
	}
	return true
}
