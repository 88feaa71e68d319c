package cube

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/statware/genesis/internal/schema"
)

// Record maps canonical field names to typed values. Fields whose raw text
// was empty are absent from the map entirely, never present as "" or nil.
type Record map[string]any

// Section is one named group of raw lines sharing a record schema. The first
// line is the header (column names); the first column of both header and
// rows is a row-type discriminator and is never exposed as data.
type Section struct {
	name   string
	header []string
	data   []string

	columns []string
	rows    [][]string
}

func newSection(name string, lines []string) *Section {
	s := &Section{name: name}
	if len(lines) > 0 {
		s.header = strings.Split(lines[0], ";")
		s.data = lines[1:]
	}
	return s
}

// Name returns the section name, or "" for the unnamed pre-marker bucket.
func (s *Section) Name() string { return s.name }

// Columns returns the normalized, translated column names, with the
// discriminator column dropped.
func (s *Section) Columns() []string {
	if s.columns == nil {
		cols := make([]string, 0, len(s.header))
		for _, col := range s.header[1:] {
			cols = append(cols, schema.NormalizeKey(col))
		}
		s.columns = cols
	}
	return s.columns
}

// Rows returns the raw decoded rows with the discriminator column dropped.
//
// The exporter wraps long quoted values across physical lines, leaving a
// newline between the field delimiter and the continuation quote. Those
// breaks are repaired before delimiter-aware parsing so that quoted fields
// containing delimiters or embedded newlines survive intact.
func (s *Section) Rows() ([][]string, error) {
	if s.rows != nil {
		return s.rows, nil
	}

	blob := strings.Join(s.data, "\n")
	blob = strings.ReplaceAll(blob, ";\n\"", ";\"")

	r := csv.NewReader(strings.NewReader(blob))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	raw, err := r.ReadAll()
	if err != nil {
		return nil, &MalformedRecordError{Section: s.name, Reason: fmt.Sprintf("row parse failed: %v", err)}
	}

	rows := make([][]string, 0, len(raw))
	for _, row := range raw {
		rows = append(rows, row[1:])
	}
	s.rows = rows
	return s.rows, nil
}

// Records decodes every row into a Record. The derivation is re-run on each
// call over the cached rows and columns, so the sequence is restartable and
// always finite.
func (s *Section) Records() ([]Record, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	cols := s.Columns()

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := s.decodeRow(cols, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRow pairs one row with the column sequence beyond index 0; the
// discriminator slot was already consumed in both header and rows, so the
// remaining names and fields are index-aligned.
func (s *Section) decodeRow(cols []string, row []string) (Record, error) {
	rec := make(Record, len(row))
	translated := true

	// A header without delimiters (the pre-marker bucket holds arbitrary
	// stray text) yields no usable columns; its rows decode to empty records.
	if len(cols) > 0 {
		cols = cols[1:]
	}

	for i, key := range cols {
		if i >= len(row) {
			break
		}
		raw := row[i]
		if raw == "" {
			continue
		}

		var value any = raw
		if coerce, ok := schema.FieldCoercions[key]; ok {
			v, err := coerce(raw)
			if err != nil {
				return nil, &CoercionError{Section: s.name, Field: key, Value: raw, Err: err}
			}
			value = v
		}

		// The translation flag steers localization filtering even though it
		// never lands in the record itself.
		if key == schema.FieldTransFlag {
			if b, ok := value.(bool); ok {
				translated = b
			}
		}

		if schema.KeysIgnore[key] {
			continue
		}
		rec[key] = value
	}

	if !translated {
		for key := range schema.KeysLocalized {
			delete(rec, key)
		}
	}
	return rec, nil
}

// First returns the section's sole record. Sections like the statistics and
// cube overviews carry exactly one row; anything else is a malformed export.
func (s *Section) First() (Record, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, &MalformedRecordError{
			Section: s.name,
			Reason:  fmt.Sprintf("expected exactly one record, got %d", len(records)),
		}
	}
	return records[0], nil
}
