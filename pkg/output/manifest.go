package output

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ritzau/grn-borda/pkg/model"
)

// ManifestSuffix ends the file name of a coverage manifest
const ManifestSuffix = "-Borda-coverage.yaml"

// Manifest records how a Borda table was produced
type Manifest struct {
	RunID          string          `yaml:"run_id,omitempty"`
	Dataset        string          `yaml:"dataset"`
	Table          string          `yaml:"table"`
	Created        time.Time       `yaml:"created"`
	Method         string          `yaml:"method"`
	Genes          int             `yaml:"genes"`
	ReferenceEdges int             `yaml:"reference_edges"`
	SelfLoops      int             `yaml:"self_loops,omitempty"`
	Edges          int             `yaml:"edges"`
	Selected       []string        `yaml:"selected,flow"`
	Algorithms     []AlgorithmLine `yaml:"algorithms"`
}

// AlgorithmLine is one algorithm's outcome in a manifest
type AlgorithmLine struct {
	Name   string `yaml:"name"`
	Status string `yaml:"status"`
	Rows   int    `yaml:"rows,omitempty"`
	Hits   int    `yaml:"reference_hits,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// AlgorithmLines converts outcomes into manifest entries
func AlgorithmLines(outcomes []model.Outcome) []AlgorithmLine {
	lines := make([]AlgorithmLine, 0, len(outcomes))
	for _, o := range outcomes {
		lines = append(lines, AlgorithmLine{
			Name:   o.Algorithm,
			Status: string(o.Status),
			Rows:   o.Rows,
			Hits:   o.Hits,
			Path:   o.Path,
			Error:  o.Message(),
		})
	}
	return lines
}

// WriteManifest writes m as YAML to path
func WriteManifest(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return f.Close()
}

// ReadManifest loads a manifest written by WriteManifest
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
