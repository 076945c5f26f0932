// Package catalogue holds the KPI catalogue: conflicting metrics, the
// standardised glossary and cross-department mappings.
//
// A Catalogue is loaded once and never mutated. Accessors hand out copies.
package catalogue

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

//go:embed data/kpi.yaml
var defaultData []byte

// document is the on-disk layout. JSON files parse too since YAML is a superset.
type document struct {
	ConflictingMetrics  []domain.ConflictingMetric `yaml:"conflictingMetrics"`
	StandardizedMetrics []domain.GlossaryTerm      `yaml:"standardizedMetrics"`
	MetricMappings      []domain.MetricMapping     `yaml:"metricMappings"`
}

// Catalogue is the immutable, preloaded reference data.
type Catalogue struct {
	metrics  []domain.ConflictingMetric
	glossary []domain.GlossaryTerm
	mappings []domain.MetricMapping
	warnings []string
}

// Default parses the embedded sample catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultData)
}

// Load reads the catalogue at path, or the embedded one when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //#nosec G304 -- operator-supplied catalogue path
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and checks a catalogue document. Hard violations fail;
// soft ones are kept as warnings.
func Parse(data []byte) (*Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	c := &Catalogue{
		metrics:  doc.ConflictingMetrics,
		glossary: doc.StandardizedMetrics,
		mappings: doc.MetricMappings,
	}

	seen := make(map[int]bool, len(c.metrics))
	for _, m := range c.metrics {
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate metric id %d", m.ID)
		}
		seen[m.ID] = true

		warnings, err := m.Check()
		if err != nil {
			return nil, err
		}
		c.warnings = append(c.warnings, warnings...)
	}

	for i, g := range c.glossary {
		if _, err := domain.ParseTeam(string(g.Team)); err != nil {
			return nil, fmt.Errorf("glossary term %d (%s): %w", g.ID, g.Name, err)
		}
		c.glossary[i] = g.Clone()
	}

	for _, mp := range c.mappings {
		if _, err := domain.ParseAlignmentStatus(string(mp.AlignmentStatus)); err != nil {
			return nil, fmt.Errorf("mapping %d: %w", mp.ID, err)
		}
	}

	return c, nil
}

// Validate returns the soft invariant violations found while parsing.
func (c *Catalogue) Validate() []string {
	return slices.Clone(c.warnings)
}

// Metrics returns every conflicting metric in catalogue order.
func (c *Catalogue) Metrics() []domain.ConflictingMetric {
	out := make([]domain.ConflictingMetric, len(c.metrics))
	for i, m := range c.metrics {
		out[i] = m.Clone()
	}
	return out
}

// Glossary returns every standardised term in catalogue order.
func (c *Catalogue) Glossary() []domain.GlossaryTerm {
	out := make([]domain.GlossaryTerm, len(c.glossary))
	for i, g := range c.glossary {
		out[i] = g.Clone()
	}
	return out
}

// Mappings returns the cross-department mappings in catalogue order.
func (c *Catalogue) Mappings() []domain.MetricMapping {
	return slices.Clone(c.mappings)
}

// Metric looks up a conflicting metric by id.
func (c *Catalogue) Metric(id int) (domain.ConflictingMetric, error) {
	for _, m := range c.metrics {
		if m.ID == id {
			return m.Clone(), nil
		}
	}
	return domain.ConflictingMetric{}, errors.NotFoundf("metric %d not found", id)
}

// GlossaryTerm looks up a glossary term by id.
func (c *Catalogue) GlossaryTerm(id int) (domain.GlossaryTerm, error) {
	for _, g := range c.glossary {
		if g.ID == id {
			return g.Clone(), nil
		}
	}
	return domain.GlossaryTerm{}, errors.NotFoundf("glossary term %d not found", id)
}

// Mapping looks up a metric mapping by id.
func (c *Catalogue) Mapping(id int) (domain.MetricMapping, error) {
	for _, mp := range c.mappings {
		if mp.ID == id {
			return mp, nil
		}
	}
	return domain.MetricMapping{}, errors.NotFoundf("mapping %d not found", id)
}
