package common

import "strings"

// SplitCities splits a comma separated list, trimming blanks and dropping empty entries.
func SplitCities(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
