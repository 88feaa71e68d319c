package format

import (
	"errors"
	"testing"
	"time"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "ja", want: true},
		{input: "JA", want: true},
		{input: "j", want: true},
		{input: "nein", want: false},
		{input: "NEIN", want: false},
		{input: "n", want: false},
		{input: "true", want: true},
		{input: "false", want: false},
		{input: "1", want: true},
		{input: "0", want: false},
		{input: " ja ", want: true},
		{input: "", wantErr: true},
		{input: "vielleicht", wantErr: true},
		{input: "2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBool(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBool(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrUnrecognizedToken) {
					t.Errorf("error %v should wrap ErrUnrecognizedToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBool(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFrom  time.Time
		wantUntil time.Time
		wantErr   bool
	}{
		{name: "dotted day", input: "01.01.2011", wantFrom: date(2011, 1, 1), wantUntil: date(2011, 1, 1)},
		{name: "iso day", input: "2011-07-15", wantFrom: date(2011, 7, 15), wantUntil: date(2011, 7, 15)},
		{name: "month", input: "02.2011", wantFrom: date(2011, 2, 1), wantUntil: date(2011, 2, 28)},
		{name: "iso month", input: "2011-02", wantFrom: date(2011, 2, 1), wantUntil: date(2011, 2, 28)},
		{name: "leap month", input: "02.2012", wantFrom: date(2012, 2, 1), wantUntil: date(2012, 2, 29)},
		{name: "year", input: "2011", wantFrom: date(2011, 1, 1), wantUntil: date(2011, 12, 31)},
		{name: "quarter suffix", input: "2011-Q2", wantFrom: date(2011, 4, 1), wantUntil: date(2011, 6, 30)},
		{name: "quarter prefix", input: "Q4 2011", wantFrom: date(2011, 10, 1), wantUntil: date(2011, 12, 31)},
		{name: "half year", input: "2011-H2", wantFrom: date(2011, 7, 1), wantUntil: date(2011, 12, 31)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "irgendwann", wantErr: true},
		{name: "bad quarter", input: "2011-Q5", wantErr: true},
		{name: "bad half", input: "2011-H3", wantErr: true},
		{name: "short year", input: "211", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, until, err := ParseDateRange(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDateRange(%q) = %v..%v, want error", tt.input, from, until)
				}
				if !errors.Is(err, ErrUnrecognizedToken) {
					t.Errorf("error %v should wrap ErrUnrecognizedToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateRange(%q) error: %v", tt.input, err)
			}
			if !from.Equal(tt.wantFrom) || !until.Equal(tt.wantUntil) {
				t.Errorf("ParseDateRange(%q) = %v..%v, want %v..%v", tt.input, from, until, tt.wantFrom, tt.wantUntil)
			}
		})
	}
}
