// Package cube decodes GENESIS cube exports into a typed, cross-referenced
// in-memory model: the cube's metadata, its dimensions with their catalog
// values, and its numeric facts.
//
// A cube export is a text blob of semicolon-delimited lines: one provenance
// line, then a body partitioned into named sections by "K;<name>;..." marker
// lines. Decoding is a pure, terminating computation over the in-memory body;
// derived views are computed on first access and cached for the cube's
// lifetime. A Cube instance is not safe for concurrent use.
package cube

import (
	"fmt"
	"strings"

	"github.com/statware/genesis/internal/schema"
)

// Cube owns one raw export body and derives its section map, metadata,
// dimensions, schema lists, and facts on demand.
type Cube struct {
	name       string
	provenance string
	body       string

	sections   map[string]*Section
	metadata   *Metadata
	dimensions map[string]*Dimension
	axes       []Record
	times      []Record
	measures   []Record
	facts      []*Fact
}

// Metadata is the merged per-cube header information: the statistics
// overview and detail, the cube overview and detail, and the unit records.
type Metadata struct {
	Name       string
	Provenance string
	Statistic  Record
	Cube       Record
	Units      []Record
}

// New creates a Cube from its name and raw export text. The first line is
// the provenance string; the rest is the section body.
func New(name, raw string) (*Cube, error) {
	provenance, body, ok := strings.Cut(raw, "\n")
	if !ok || body == "" {
		return nil, &MalformedRecordError{
			Section: name,
			Reason:  "export has no body after the provenance line",
		}
	}
	return &Cube{name: name, provenance: provenance, body: body}, nil
}

// Name returns the cube's name.
func (c *Cube) Name() string { return c.name }

// Provenance returns the export's first line.
func (c *Cube) Provenance() string { return c.provenance }

// Sections splits the body into named sections. A section name may recur in
// non-adjacent blocks; its lines accumulate in encounter order, marker lines
// included. Lines before the first marker form an unnamed bucket that is
// never retrievable by name.
func (c *Cube) Sections() map[string]*Section {
	if c.sections != nil {
		return c.sections
	}

	grouped := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(c.body, "\n") {
		if strings.HasPrefix(line, schema.SectionMarker) {
			parts := strings.SplitN(line, ";", 3)
			if len(parts) >= 2 && parts[1] != "" {
				current = parts[1]
			}
		}
		grouped[current] = append(grouped[current], line)
	}

	sections := make(map[string]*Section, len(grouped))
	for name, lines := range grouped {
		sections[name] = newSection(name, lines)
	}
	c.sections = sections
	return c.sections
}

// section looks up one named section, failing with MissingSectionError
// rather than substituting an empty section.
func (c *Cube) section(name string) (*Section, error) {
	if name == "" {
		return nil, &MissingSectionError{Cube: c.name, Section: name}
	}
	s, ok := c.Sections()[name]
	if !ok {
		return nil, &MissingSectionError{Cube: c.name, Section: name}
	}
	return s, nil
}

// sectionRecords returns all records of one named section.
func (c *Cube) sectionRecords(name string) ([]Record, error) {
	s, err := c.section(name)
	if err != nil {
		return nil, err
	}
	return s.Records()
}

// sectionFirst returns the sole record of a single-record section.
func (c *Cube) sectionFirst(name string) (Record, error) {
	s, err := c.section(name)
	if err != nil {
		return nil, err
	}
	return s.First()
}

// Metadata merges the statistics overview with its detail section, the cube
// overview with its detail section (later fields win), and collects the unit
// records.
func (c *Cube) Metadata() (*Metadata, error) {
	if c.metadata != nil {
		return c.metadata, nil
	}

	statistic, err := c.sectionFirst(schema.SectionStatistic)
	if err != nil {
		return nil, err
	}
	statisticDetail, err := c.sectionFirst(schema.SectionStatisticDetail)
	if err != nil {
		return nil, err
	}
	mergeRecord(statistic, statisticDetail)

	cubeRec, err := c.sectionFirst(schema.SectionCube)
	if err != nil {
		return nil, err
	}
	cubeDetail, err := c.sectionFirst(schema.SectionCubeDetail)
	if err != nil {
		return nil, err
	}
	mergeRecord(cubeRec, cubeDetail)

	units, err := c.sectionRecords(schema.SectionUnits)
	if err != nil {
		return nil, err
	}

	c.metadata = &Metadata{
		Name:       c.name,
		Provenance: c.provenance,
		Statistic:  statistic,
		Cube:       cubeRec,
		Units:      units,
	}
	return c.metadata, nil
}

// Dimensions builds one Dimension per definition record and attaches every
// catalog value the association section resolves to it. An association
// referencing an unknown catalog key or dimension name is a schema mismatch,
// never a silently empty value.
func (c *Cube) Dimensions() (map[string]*Dimension, error) {
	if c.dimensions != nil {
		return c.dimensions, nil
	}

	defs, err := c.sectionRecords(schema.SectionDimensions)
	if err != nil {
		return nil, err
	}
	dimensions := make(map[string]*Dimension, len(defs))
	for _, def := range defs {
		name, ok := def[schema.FieldName].(string)
		if !ok {
			return nil, &SchemaMismatchError{Cube: c.name, Reason: "dimension definition has no name"}
		}
		dimensions[name] = newDimension(c, def)
	}

	catalogRecs, err := c.sectionRecords(schema.SectionValueCatalog)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]Record, len(catalogRecs))
	for _, rec := range catalogRecs {
		if key, ok := rec[schema.FieldKey].(string); ok {
			catalog[key] = rec
		}
	}

	assocs, err := c.sectionRecords(schema.SectionValueAssoc)
	if err != nil {
		return nil, err
	}
	for _, assoc := range assocs {
		key, _ := assoc[schema.FieldKey].(string)
		base, ok := catalog[key]
		if !ok {
			return nil, &SchemaMismatchError{
				Cube:   c.name,
				Reason: fmt.Sprintf("value association references unknown catalog key %q", key),
			}
		}
		name, _ := assoc[schema.FieldName].(string)
		dim, ok := dimensions[name]
		if !ok {
			return nil, &SchemaMismatchError{
				Cube:   c.name,
				Reason: fmt.Sprintf("value association references unknown dimension %q", name),
			}
		}
		dim.addValue(base, assoc)
	}

	c.dimensions = dimensions
	return c.dimensions, nil
}

// Axes returns the categorical axis schema records, order preserved.
func (c *Cube) Axes() ([]Record, error) {
	if c.axes == nil {
		recs, err := c.sectionRecords(schema.SectionAxes)
		if err != nil {
			return nil, err
		}
		c.axes = recs
	}
	return c.axes, nil
}

// Times returns the temporal dimension schema records, order preserved.
func (c *Cube) Times() ([]Record, error) {
	if c.times == nil {
		recs, err := c.sectionRecords(schema.SectionTimes)
		if err != nil {
			return nil, err
		}
		c.times = recs
	}
	return c.times, nil
}

// Measures returns the numeric measure schema records, order preserved.
func (c *Cube) Measures() ([]Record, error) {
	if c.measures == nil {
		recs, err := c.sectionRecords(schema.SectionMeasures)
		if err != nil {
			return nil, err
		}
		c.measures = recs
	}
	return c.measures, nil
}

// Facts returns one Fact per raw row of the fact section. The rows stay
// undecoded here; Fact.Mapping performs the positional decode against the
// cube's schema.
func (c *Cube) Facts() ([]*Fact, error) {
	if c.facts != nil {
		return c.facts, nil
	}

	s, err := c.section(schema.SectionFacts)
	if err != nil {
		return nil, err
	}
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}

	facts := make([]*Fact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, &Fact{cube: c, row: row})
	}
	c.facts = facts
	return c.facts, nil
}

// ToMap converts the cube's full exported form into plain nested maps and
// slices suitable for serialization by an external writer.
func (c *Cube) ToMap() (map[string]any, error) {
	md, err := c.Metadata()
	if err != nil {
		return nil, err
	}
	dims, err := c.Dimensions()
	if err != nil {
		return nil, err
	}
	facts, err := c.Facts()
	if err != nil {
		return nil, err
	}

	dimMaps := make(map[string]any, len(dims))
	for name, dim := range dims {
		dimMaps[name] = dim.ToMap()
	}
	factMaps := make([]map[string]any, 0, len(facts))
	for _, f := range facts {
		m, err := f.Mapping()
		if err != nil {
			return nil, err
		}
		factMaps = append(factMaps, m)
	}

	return map[string]any{
		"metadata":   md.ToMap(),
		"dimensions": dimMaps,
		"facts":      factMaps,
	}, nil
}

// ToMap flattens the metadata into a plain map.
func (m *Metadata) ToMap() map[string]any {
	units := make([]map[string]any, 0, len(m.Units))
	for _, u := range m.Units {
		units = append(units, map[string]any(u))
	}
	return map[string]any{
		"name":       m.Name,
		"provenance": m.Provenance,
		"statistic":  map[string]any(m.Statistic),
		"cube":       map[string]any(m.Cube),
		"units":      units,
	}
}

// mergeRecord copies src fields into dst; src wins on key collision.
func mergeRecord(dst, src Record) {
	for k, v := range src {
		dst[k] = v
	}
}
