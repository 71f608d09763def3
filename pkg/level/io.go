package level

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type document struct {
	ID    string     `json:"level_id" yaml:"level_id"`
	Nodes []nodeJSON `json:"nodes" yaml:"nodes"`
	Edges []edgeJSON `json:"edges" yaml:"edges"`
}

type nodeJSON struct {
	ID          int      `json:"id" yaml:"id"`
	X           float64  `json:"x" yaml:"x"`
	Y           float64  `json:"y" yaml:"y"`
	Type        NodeType `json:"type" yaml:"type"`
	SwitchGroup int      `json:"switch_group,omitempty" yaml:"switch_group,omitempty"`
}

// edgeJSON leaves GateGroup nil when the input omits it, which reads as
// ungated.
type edgeJSON struct {
	ID        int   `json:"id" yaml:"id"`
	A         int   `json:"a" yaml:"a"`
	B         int   `json:"b" yaml:"b"`
	Diode     Diode `json:"diode" yaml:"diode"`
	GateGroup *int  `json:"gate_group" yaml:"gate_group"`
	GateOpen  bool  `json:"gate_open,omitempty" yaml:"gate_open,omitempty"`
}

func toDocument(l *Level) document {
	doc := document{
		ID:    l.ID,
		Nodes: make([]nodeJSON, len(l.Nodes)),
		Edges: make([]edgeJSON, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		doc.Nodes[i] = nodeJSON{ID: n.ID, X: n.Pos.X, Y: n.Pos.Y, Type: n.Type, SwitchGroup: n.SwitchGroup}
	}
	for i, e := range l.Edges {
		group := e.GateGroup
		doc.Edges[i] = edgeJSON{ID: e.ID, A: e.A, B: e.B, Diode: e.Diode, GateGroup: &group, GateOpen: e.GateOpen}
	}
	return doc
}

func fromDocument(doc document) (*Level, error) {
	l := &Level{
		ID:    doc.ID,
		Nodes: make([]Node, len(doc.Nodes)),
		Edges: make([]Edge, len(doc.Edges)),
	}
	for i, n := range doc.Nodes {
		l.Nodes[i] = Node{ID: n.ID, Type: n.Type, SwitchGroup: n.SwitchGroup}
		l.Nodes[i].Pos.X, l.Nodes[i].Pos.Y = n.X, n.Y
	}
	for i, e := range doc.Edges {
		group := NoGate
		if e.GateGroup != nil {
			group = *e.GateGroup
		}
		l.Edges[i] = Edge{ID: e.ID, A: e.A, B: e.B, Diode: e.Diode, GateGroup: group, GateOpen: e.GateOpen}
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level: %w", err)
	}
	return l, nil
}

// MarshalJSON implements json.Marshaler.
func (l *Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDocument(l))
}

// UnmarshalJSON implements json.Unmarshaler. The decoded level is validated.
func (l *Level) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := fromDocument(doc)
	if err != nil {
		return err
	}
	*l = *out
	return nil
}

// WriteJSON encodes l as indented JSON.
func WriteJSON(l *Level, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(l)); err != nil {
		return fmt.Errorf("encode level: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a level.
func ReadJSON(r io.Reader) (*Level, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	return fromDocument(doc)
}

// WriteYAML encodes l as YAML.
func WriteYAML(l *Level, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(l)); err != nil {
		return fmt.Errorf("encode level: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes and validates a level.
func ReadYAML(r io.Reader) (*Level, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	return fromDocument(doc)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadFile loads a level from path. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ReadFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if isYAML(path) {
		return ReadYAML(f)
	}
	return ReadJSON(f)
}

// WriteFile writes l to path, choosing the codec like [ReadFile].
func WriteFile(l *Level, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		err = WriteYAML(l, f)
	} else {
		err = WriteJSON(l, f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
