// Package loader reads graph descriptors from JSON or YAML files and builds
// validated graphs from them. The descriptor format is the external boundary
// of the analysis pipeline: node count, edge list, directedness, and the
// designated source node.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/urbansched/taskplan/pkg/graph"
)

var (
	// ErrNilDescriptor is returned when a nil descriptor is passed to Build.
	ErrNilDescriptor = errors.New("descriptor is nil")
	// ErrUnknownFormat is returned for file extensions other than
	// .json/.yaml/.yml.
	ErrUnknownFormat = errors.New("unknown descriptor format")
)

// EdgeSpec is one directed edge in a descriptor.
type EdgeSpec struct {
	U int   `json:"u" yaml:"u"`
	V int   `json:"v" yaml:"v"`
	W int64 `json:"w" yaml:"w"`
}

func (e EdgeSpec) String() string {
	return fmt.Sprintf("%d->%d(%d)", e.U, e.V, e.W)
}

// Descriptor is the on-disk shape of a graph dataset.
type Descriptor struct {
	N           int        `json:"n" yaml:"n"`
	Directed    bool       `json:"directed" yaml:"directed"`
	Edges       []EdgeSpec `json:"edges" yaml:"edges"`
	Source      int        `json:"source" yaml:"source"`
	WeightModel string     `json:"weight_model,omitempty" yaml:"weight_model,omitempty"`
}

// LoadFile reads a descriptor, choosing the decoder by file extension.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	var d Descriptor
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	return &d, nil
}

// Build constructs a graph from a descriptor. Any edge endpoint outside
// [0, n) fails construction; edges are never silently dropped.
func Build(d *Descriptor) (*graph.Graph, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}

	g := graph.New(d.N, d.Directed)
	for _, e := range d.Edges {
		if err := g.AddEdge(e.U, e.V, e.W); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e, err)
		}
	}
	return g, nil
}

// LoadGraph reads a descriptor file and builds its graph in one step.
func LoadGraph(path string) (*graph.Graph, *Descriptor, error) {
	d, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := Build(d)
	if err != nil {
		return nil, nil, err
	}
	return g, d, nil
}
