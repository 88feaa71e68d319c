package cube

import (
	"fmt"
	"strconv"

	"github.com/statware/genesis/internal/format"
	"github.com/statware/genesis/internal/ident"
	"github.com/statware/genesis/internal/schema"
)

// Fact is one undecoded fact row of a cube. It holds the cube's schema by
// reference and decodes itself positionally on demand: the axis, time, and
// measure schema lists define the exact field layout, consumed strictly
// left to right with no backtracking.
type Fact struct {
	cube *Cube
	row  []string
}

// Row returns the raw fact fields.
func (f *Fact) Row() []string { return f.row }

// Mapping decodes the row against the cube's schema:
//
//	1 field per axis:     stored verbatim under the axis name
//	1 field per time:     raw text plus parsed validity start/end
//	4 fields per measure: typed value, quality flag, locked flag, error flag
//
// The fact's identity derives from the raw axis and time tokens in schema
// order; the raw tokens are used, not their parsed forms, so identities stay
// stable across representations.
func (f *Fact) Mapping() (map[string]any, error) {
	axes, err := f.cube.Axes()
	if err != nil {
		return nil, err
	}
	times, err := f.cube.Times()
	if err != nil {
		return nil, err
	}
	measures, err := f.cube.Measures()
	if err != nil {
		return nil, err
	}

	needed := len(axes) + len(times) + 4*len(measures)
	if len(f.row) < needed {
		return nil, &SchemaMismatchError{
			Cube:   f.cube.Name(),
			Reason: fmt.Sprintf("fact row has %d fields, schema demands %d", len(f.row), needed),
		}
	}

	mapping := make(map[string]any, len(axes)+len(times)+len(measures)+1)
	identityParts := make([]string, 0, len(axes)+len(times))
	offset := 0

	for _, axis := range axes {
		name, err := schemaName(f.cube, axis, "axis")
		if err != nil {
			return nil, err
		}
		mapping[name] = f.row[offset]
		identityParts = append(identityParts, f.row[offset])
		offset++
	}

	for _, tdim := range times {
		name, err := schemaName(f.cube, tdim, "time dimension")
		if err != nil {
			return nil, err
		}
		raw := f.row[offset]
		from, until, err := format.ParseDateRange(raw)
		if err != nil {
			return nil, &CoercionError{Section: schema.SectionFacts, Field: name, Value: raw, Err: err}
		}
		mapping[name] = map[string]any{
			"plain": raw,
			"from":  from,
			"until": until,
		}
		identityParts = append(identityParts, raw)
		offset++
	}

	for _, measure := range measures {
		name, err := schemaName(f.cube, measure, "measure")
		if err != nil {
			return nil, err
		}

		entry := make(map[string]any, len(measure)+4)
		for k, v := range measure {
			if k == schema.FieldName {
				continue
			}
			entry[k] = v
		}

		raw := f.row[offset]
		if measure[schema.FieldDataType] == schema.DataTypeInteger {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, &CoercionError{Section: schema.SectionFacts, Field: name, Value: raw, Err: err}
			}
			entry["value"] = n
		} else {
			x, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &CoercionError{Section: schema.SectionFacts, Field: name, Value: raw, Err: err}
			}
			entry["value"] = x
		}
		entry["quality"] = f.row[offset+1]
		entry["locked"] = f.row[offset+2]
		entry["error"] = f.row[offset+3]
		mapping[name] = entry
		offset += 4
	}

	mapping["fact_id"] = ident.Key(identityParts...)
	return mapping, nil
}

// schemaName extracts the name field of an axis/time/measure schema record.
func schemaName(c *Cube, rec Record, kind string) (string, error) {
	name, ok := rec[schema.FieldName].(string)
	if !ok {
		return "", &SchemaMismatchError{Cube: c.Name(), Reason: kind + " record has no name"}
	}
	return name, nil
}
