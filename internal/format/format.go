// Package format provides parsers for the primitive value encodings used in
// GENESIS cube exports: boolean tokens and temporal range tokens.
//
// These parsers handle the fixed vocabularies the data warehouse emits:
//   - Boolean flags in German and English (ja/nein, j/n, true/false, 1/0)
//   - Temporal tokens at day, month, quarter, half-year, and year granularity
//
// All parsers fail on out-of-vocabulary input rather than guessing; a wrong
// guess would silently corrupt a statistical dataset.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognizedToken is wrapped by all parse errors in this package so
// callers can classify them with errors.Is.
var ErrUnrecognizedToken = errors.New("unrecognized token")

// Day-granularity layouts. The dotted form is what GENESIS exports emit;
// the ISO forms show up in hand-maintained catalogs.
var dayLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"2006.01.02",
}

// Month-granularity layouts.
var monthLayouts = []string{
	"01.2006",
	"2006-01",
}

// ParseBool parses a GENESIS boolean flag token.
// Accepted vocabulary: ja/nein, j/n, true/false, t/f, 1/0 (case-insensitive).
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "j", "true", "t", "1":
		return true, nil
	case "nein", "n", "false", "f", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean flag", ErrUnrecognizedToken, s)
	}
}

// ParseDateRange parses a temporal token into the first and last day of the
// span it covers. Supported granularities:
//
//	day       02.01.2006, 2006-01-02, 2006.01.02
//	month     01.2006, 2006-01
//	quarter   2006-Q1, Q1 2006
//	half-year 2006-H1, H1 2006
//	year      2006
//
// Day-granularity tokens cover exactly one day (from == until).
func ParseDateRange(s string) (time.Time, time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: empty date text", ErrUnrecognizedToken)
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, t, nil
		}
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, endOfMonth(t), nil
		}
	}

	if year, part, ok := splitPeriod(s); ok {
		switch part[0] {
		case 'Q':
			q, err := strconv.Atoi(part[1:])
			if err == nil && q >= 1 && q <= 4 {
				from := time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC)
				return from, endOfMonth(from.AddDate(0, 2, 0)), nil
			}
		case 'H':
			h, err := strconv.Atoi(part[1:])
			if err == nil && (h == 1 || h == 2) {
				from := time.Date(year, time.Month(6*(h-1)+1), 1, 0, 0, 0, 0, time.UTC)
				return from, endOfMonth(from.AddDate(0, 5, 0)), nil
			}
		}
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q is not a valid period", ErrUnrecognizedToken, s)
	}

	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q is not a date", ErrUnrecognizedToken, s)
}

// splitPeriod recognizes the quarter/half-year forms "2006-Q1" and "Q1 2006".
// It returns the year, the period part (e.g. "Q1"), and whether the token
// matched either shape.
func splitPeriod(s string) (int, string, bool) {
	s = strings.ToUpper(s)

	var yearStr, part string
	switch {
	case len(s) >= 6 && s[4] == '-':
		yearStr, part = s[:4], s[5:]
	case len(s) >= 7 && s[len(s)-5] == ' ':
		yearStr, part = s[len(s)-4:], s[:len(s)-5]
	default:
		return 0, "", false
	}

	if len(part) < 2 || (part[0] != 'Q' && part[0] != 'H') {
		return 0, "", false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, "", false
	}
	return year, part, true
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}
