package cube

// errors.go defines the terminal error kinds surfaced by cube decoding.
//
// There is no local recovery: any of these aborts decoding of the current
// cube. Partial cubes are never returned, because a silently skipped row or
// field would corrupt a statistical dataset without visible symptoms.
// Callers decoding a batch isolate failures per cube at the orchestration
// layer, not here.

import "fmt"

// MissingSectionError reports a lookup of a section name absent from the
// cube body.
type MissingSectionError struct {
	Cube    string
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("cube %s: section %s not present in export", e.Cube, e.Section)
}

// MalformedRecordError reports a section whose rows could not be decoded,
// or a single-record section that yielded zero or multiple records.
type MalformedRecordError struct {
	Section string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("section %s: %s", e.Section, e.Reason)
}

// CoercionError reports a field whose raw text did not match its declared
// type.
type CoercionError struct {
	Section string
	Field   string
	Value   string
	Err     error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("section %s: field %s: cannot coerce %q: %v", e.Section, e.Field, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// SchemaMismatchError reports a fact or value row that does not line up with
// the cube's schema: too few fields, or a reference to a catalog key or
// dimension that does not exist.
type SchemaMismatchError struct {
	Cube   string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("cube %s: %s", e.Cube, e.Reason)
}
