package landmark

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/philipparndt/landmarker/pkg/geometry"
)

// Version is the only snapshot layout this package reads and writes
const Version = 1

// MarshalJSON encodes the set as
//
//	{"groups": {"<label>": {"points": [[x,y,z] | null, ...]}, ...},
//	 "modelId": "...", "version": 1}
//
// Groups are written in label order so FromJSON can restore it.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"groups":{`)
	for i, label := range s.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		group, err := json.Marshal(s.groups[label])
		if err != nil {
			return nil, fmt.Errorf("failed to encode group %q: %w", label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(group)
	}
	buf.WriteString(`},"modelId":`)
	modelID, err := json.Marshal(s.modelID)
	if err != nil {
		return nil, err
	}
	buf.Write(modelID)
	fmt.Fprintf(&buf, `,"version":%d}`, Version)
	return buf.Bytes(), nil
}

type setJSON struct {
	Groups  orderedGroups `json:"groups"`
	ModelID string        `json:"modelId"`
	Version int           `json:"version"`
}

type orderedGroups struct {
	labels []string
	points [][]*geometry.Vector3
}

func (o *orderedGroups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected group label, got %v", tok)
		}
		var group struct {
			Points []*[3]float64 `json:"points"`
		}
		if err := dec.Decode(&group); err != nil {
			return fmt.Errorf("failed to decode group %q: %w", label, err)
		}
		points := make([]*geometry.Vector3, len(group.Points))
		for i, p := range group.Points {
			if p != nil {
				v := geometry.NewVector3(p[0], p[1], p[2])
				points[i] = &v
			}
		}
		o.labels = append(o.labels, label)
		o.points = append(o.points, points)
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// FromJSON rebuilds a set from the layout MarshalJSON produces. Snapshots
// with a version other than Version are rejected.
func FromJSON(data []byte) (*Set, error) {
	var raw setJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse landmark set: %w", err)
	}
	if raw.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, raw.Version)
	}
	return NewSetWithPoints(raw.ModelID, raw.Groups.labels, raw.Groups.points)
}

// SaveAndRebuild round-trips the set through its JSON form
func SaveAndRebuild(s *Set) (*Set, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}
