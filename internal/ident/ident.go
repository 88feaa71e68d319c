// Package ident derives stable string identifiers from ordered value parts.
//
// Identifiers are deterministic across runs and processes for the same input
// parts, which makes them safe to use as primary keys for decoded values and
// facts. The hash is sensitive to the exact textual representation of each
// part, so callers must pass the raw tokens they want identity over, not
// normalized forms.
package ident

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Key returns the hex digest of the ordered parts joined with ":".
func Key(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// KeyOf stringifies typed parts and returns their Key. Nil parts contribute
// an empty string; dates contribute their calendar day only, since temporal
// validity in cube exports is day-granular.
func KeyOf(parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = Part(p)
	}
	return Key(strs...)
}

// Part converts a single typed value to its identity representation.
func Part(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}
