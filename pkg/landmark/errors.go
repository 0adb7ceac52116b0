package landmark

import "errors"

var (
	// ErrLengthMismatch is a configuration error: labels and counts, or a
	// group and its points, disagree in length
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrNoLabels is returned when a set is built without any label
	ErrNoLabels = errors.New("landmark set needs at least one label")
	// ErrDuplicateLabel is returned when a label appears twice
	ErrDuplicateLabel = errors.New("duplicate label")
	// ErrUnknownLabel is returned for labels the set does not contain
	ErrUnknownLabel = errors.New("unknown label")
	// ErrIndexOutOfRange is returned for landmark indices outside a group
	ErrIndexOutOfRange = errors.New("landmark index out of range")
	// ErrUnsupportedVersion is returned when loading a snapshot whose
	// version this package does not understand
	ErrUnsupportedVersion = errors.New("unsupported landmark set version")
	// ErrUnknownTemplate is returned for landmark types without a template
	ErrUnknownTemplate = errors.New("unknown landmark template")
)
