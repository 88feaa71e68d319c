// Package schema defines the static vocabulary of GENESIS cube exports:
// section names, header field translations, ignore and localization sets,
// and the per-field coercion registry.
//
// Everything in this package is keyed by normalized field names (lowercase,
// hyphens replaced with underscores, translated to their canonical form).
package schema

import "strings"

// SectionMarker starts every section header line ("K;<name>;...").
const SectionMarker = "K;"

// Section names as they appear in export bodies. Order of rows inside the
// schema sections (axes, times, measures) is load-bearing: it defines the
// positional layout of every fact row.
const (
	SectionStatistic       = "ERH"    // statistics overview, single record
	SectionStatisticDetail = "ERH-D"  // statistics detail, single record
	SectionCube            = "DQ"     // cube overview, single record
	SectionCubeDetail      = "DQ-ERH" // cube detail, single record
	SectionUnits           = "ME"     // measurement units
	SectionDimensions      = "MM"     // dimension definitions
	SectionValueCatalog    = "KMA"    // catalog of dimension values
	SectionValueAssoc      = "KMAZ"   // value-to-dimension associations
	SectionAxes            = "DQA"    // categorical fact axes
	SectionTimes           = "DQZ"    // temporal fact dimensions
	SectionMeasures        = "DQI"    // numeric measures
	SectionFacts           = "QEI"    // fact rows
)

// Canonical field names referenced by the assembler.
const (
	FieldName       = "name"
	FieldKey        = "key"
	FieldDataType   = "data_type"
	FieldValidFrom  = "valid_from"
	FieldValidUntil = "valid_until"

	// FieldTransFlag marks whether a record's texts are translated. Records
	// carrying a false flag have their localized fields stripped.
	FieldTransFlag = "trans_flag_2"
)

// DataTypeInteger is the measure data_type marker for integer-valued
// measures; every other data_type decodes as a real number.
const DataTypeInteger = "GANZ"

// NormalizeKey converts a raw header column to its canonical field name:
// lowercase, hyphens to underscores, then translated via KeysTranslate.
func NormalizeKey(col string) string {
	col = strings.ToLower(col)
	col = strings.ReplaceAll(col, "-", "_")
	if translated, ok := KeysTranslate[col]; ok {
		return translated
	}
	return col
}
