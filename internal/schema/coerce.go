package schema

import (
	"strconv"

	"github.com/statware/genesis/internal/format"
)

// Coercion converts a raw field token into its typed value.
type Coercion func(string) (any, error)

// FieldCoercions maps canonical field names to their typed-value conversion.
// Fields without an entry pass through as raw text.
//
// Coercion runs before ignore-filtering: a malformed value in an ignored
// field still fails the decode rather than slipping past unvalidated.
var FieldCoercions = map[string]Coercion{
	"eu_vbd":        boolField,
	"genesis_vbd":   boolField,
	"regiostat":     boolField,
	"secret_values": boolField,
	"spr_tmp":       boolField,
	"trans_flag_1":  boolField,
	"trans_flag_2":  boolField,
	"meta_variable": boolField,
	"summable":      boolField,
	"atemporal":     boolField,

	// valid_from and valid_until each hold one temporal token; the range
	// parse of that token supplies the start or end respectively.
	"valid_from":  dateRangeStart,
	"valid_until": dateRangeEnd,

	"pos_nr":          intField,
	"axis_order":      intField,
	"label_order":     intField,
	"float_precision": intField,
}

func boolField(s string) (any, error) {
	return format.ParseBool(s)
}

func intField(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func dateRangeStart(s string) (any, error) {
	from, _, err := format.ParseDateRange(s)
	if err != nil {
		return nil, err
	}
	return from, nil
}

func dateRangeEnd(s string) (any, error) {
	_, until, err := format.ParseDateRange(s)
	if err != nil {
		return nil, err
	}
	return until, nil
}
