package landmark

import (
	"fmt"
	"sort"
)

type templateGroup struct {
	label string
	count int
}

var templates = map[string][]templateGroup{
	// 68 point iBUG face annotation
	"ibug68": {
		{"chin", 17},
		{"eyebrows", 10},
		{"nose", 9},
		{"eyes", 12},
		{"mouth", 20},
	},
}

// TemplateTypes lists the landmark types Template understands
func TemplateTypes() []string {
	types := make([]string, 0, len(templates))
	for t := range templates {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Template returns an empty set laid out for landmarkType
func Template(landmarkType, modelID string) (*Set, error) {
	groups, ok := templates[landmarkType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, landmarkType)
	}
	labels := make([]string, len(groups))
	counts := make([]int, len(groups))
	for i, g := range groups {
		labels[i] = g.label
		counts[i] = g.count
	}
	return NewSet(modelID, labels, counts)
}
