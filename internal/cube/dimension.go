package cube

import (
	"github.com/statware/genesis/internal/ident"
	"github.com/statware/genesis/internal/schema"
)

// Dimension is one categorical dimension of a cube: its defining record plus
// the ordered catalog values resolved onto it. A dimension belongs to exactly
// one cube.
type Dimension struct {
	cube   *Cube
	data   Record
	values []*Value
}

func newDimension(c *Cube, data Record) *Dimension {
	return &Dimension{cube: c, data: data}
}

// Name returns the dimension's name from its defining record.
func (d *Dimension) Name() string {
	name, _ := d.data[schema.FieldName].(string)
	return name
}

// Values returns the catalog values attached to this dimension, in
// association order.
func (d *Dimension) Values() []*Value { return d.values }

// addValue merges a base catalog record with its association record and
// appends the result as a Value.
func (d *Dimension) addValue(base, assoc Record) {
	d.values = append(d.values, newValue(d, base, assoc))
}

// ToMap flattens the dimension and its values into plain maps.
func (d *Dimension) ToMap() map[string]any {
	out := make(map[string]any, len(d.data)+1)
	for k, v := range d.data {
		out[k] = v
	}
	values := make([]map[string]any, 0, len(d.values))
	for _, v := range d.values {
		values = append(values, v.ToMap())
	}
	out["values"] = values
	return out
}

// Value is one catalog value of a dimension, built by merging the base
// catalog record with the dimension-specific association record (association
// fields win). It belongs to exactly one dimension.
type Value struct {
	dimension *Dimension

	// name is captured from the merged record before removal; the field
	// itself double-books the dimension name and is dropped from the payload.
	name string
	data Record
}

func newValue(d *Dimension, base, assoc Record) *Value {
	merged := make(Record, len(base)+len(assoc))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range assoc {
		merged[k] = v
	}
	name, _ := merged[schema.FieldName].(string)
	delete(merged, schema.FieldName)

	return &Value{dimension: d, name: name, data: merged}
}

// ID derives the value's stable identity from its name, catalog key, and
// validity range.
func (v *Value) ID() string {
	return ident.KeyOf(
		v.name,
		v.data[schema.FieldKey],
		v.data[schema.FieldValidFrom],
		v.data[schema.FieldValidUntil],
	)
}

// ToMap flattens the value's merged record plus its derived identity.
func (v *Value) ToMap() map[string]any {
	out := make(map[string]any, len(v.data)+1)
	for k, val := range v.data {
		out[k] = val
	}
	out["value_id"] = v.ID()
	return out
}
