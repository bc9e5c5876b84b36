package inspect

import (
	"bytes"
	"strings"
	"testing"
)

func TestMatchedRate(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   float64
	}{
		{"no active companies", Report{}, 0},
		{"full coverage", Report{ActiveCompanies: 100, MatchedCompanies: 100}, 1.0},
		{"partial coverage", Report{ActiveCompanies: 200, MatchedCompanies: 150}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.MatchedRate(); got != tt.want {
				t.Errorf("MatchedRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	r := Report{
		Companies:        5000000,
		ActiveCompanies:  4000000,
		MatchedCompanies: 3900000,
		Postcodes:        1800000,
	}

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()

	for _, want := range []string{
		"Companies:",
		"5000000",
		"97.5% of active",
		"not loaded",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "outside UK bounds") {
		t.Error("bounds warning should only appear when bad points exist")
	}

	r.OutOfBoundsPoints = 3
	buf.Reset()
	r.Print(&buf)
	if !strings.Contains(buf.String(), "outside UK bounds") {
		t.Error("bounds warning missing when bad points exist")
	}
}
