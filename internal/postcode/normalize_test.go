package postcode

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already canonical",
			input: "SW1A 1AA",
			want:  "SW1A 1AA",
		},
		{
			name:  "lowercase no space",
			input: "sw1a1aa",
			want:  "SW1A 1AA",
		},
		{
			name:  "extra internal whitespace",
			input: "GU34   1AA",
			want:  "GU34 1AA",
		},
		{
			name:  "leading and trailing whitespace",
			input: "  ec2r 8ah  ",
			want:  "EC2R 8AH",
		},
		{
			name:  "short district",
			input: "n16ab",
			want:  "N1 6AB",
		},
		{
			name:  "too short to split",
			input: "sw1",
			want:  "SW1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompactKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SW1A 1AA", "SW1A1AA"},
		{"sw1a 1aa", "SW1A1AA"},
		{" gu34  1aa ", "GU341AA"},
		{"EC2R8AH", "EC2R8AH"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CompactKey(tt.input); got != tt.want {
				t.Errorf("CompactKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"SW1A 1AA", true},
		{"EC2R 8AH", true},
		{"GU34 1AA", true},
		{"N1 6AB", true},
		{"ZZ99 9ZZ", true}, // well-formed but nonexistent; existence is the resolver's job
		{"", false},
		{"SW1", false},
		{"12345", false},
		{"SW1A 1AAA", false},
		{"hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidFormat(tt.input); got != tt.want {
				t.Errorf("ValidFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
