package common

import (
	"strings"
	"testing"
)

func TestSplitCities(t *testing.T) {
	tests := map[string]string{
		"New York, Miami":      "New York|Miami",
		" Toronto ,, Chicago ": "Toronto|Chicago",
		"Lisbon":               "Lisbon",
	}
	for in, want := range tests {
		if got := strings.Join(SplitCities(in), "|"); got != want {
			t.Errorf("SplitCities(%q) = %q, want %q", in, got, want)
		}
	}
	if got := SplitCities(" , "); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
